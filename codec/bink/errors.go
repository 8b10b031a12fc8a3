/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the codec-level error taxonomy (§7): failures that
  occur while decoding a single frame's video payload.

AUTHOR
  AusOcean av contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bink

import "github.com/pkg/errors"

// ErrCorruptStream indicates an unrecognized block type or sub-block type
// was encountered while decoding a frame's video payload. It is fatal for
// the current decoder; callers should drop it rather than continue.
var ErrCorruptStream = errors.New("bink: corrupt video payload")
