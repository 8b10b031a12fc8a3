/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements VideoDecoder, which decodes one frame's video
  payload into a Frame given the previous frame as a motion/residue
  reference (§4.3.1).

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

import "github.com/ausocean/bink/codec/bink/bits"

// VideoDecoder decodes successive video payloads against a running
// previous-frame reference. It carries no state of its own between calls;
// the caller owns the current/previous Frame pair.
type VideoDecoder struct{}

// ceilDiv returns ceil(a/b) for positive a, b.
func ceilDiv(a, b int) int { return (a + b - 1) / b }

// DecodeFrame decodes payload (already wrapped in r) into cur, using prev
// as the motion/residue reference and the pre-decode "new frame = copy of
// previous frame" seed that the caller is expected to have applied via
// cur.CopyFrom(prev) before calling this. subVersion selects the
// swapped-UV-planes behaviour (§4.3.1).
func (VideoDecoder) DecodeFrame(r *bits.Reader, cur, prev *Frame, subVersion byte) error {
	swapped := subVersion > 'c'
	lumaBW, lumaBH := ceilDiv(cur.Width, 8), ceilDiv(cur.Height, 8)
	chromaBW, chromaBH := ceilDiv(cur.Width, 16), ceilDiv(cur.Height, 16)

	if cur.HasAlpha {
		if subVersion > 'd' {
			r.Skip(32)
		}
		if err := decodePlane(r, subVersion, lumaBW, lumaBH, cur.Planes[PlaneA], prev.Planes[PlaneA], cur.LineSize[PlaneA]); err != nil {
			return err
		}
		r.Align32()
		if r.BitsLeft() == 0 {
			return nil
		}
	}

	if subVersion > 'd' {
		r.Skip(32)
	}

	for _, logical := range [3]int{PlaneY, 1, 2} {
		target := logical
		if swapped && logical != 0 {
			target = logical ^ 3
		}
		bw, bh := lumaBW, lumaBH
		if logical != 0 {
			bw, bh = chromaBW, chromaBH
		}
		if err := decodePlane(r, subVersion, bw, bh, cur.Planes[target], prev.Planes[target], cur.LineSize[target]); err != nil {
			return err
		}
		r.Align32()
		if r.BitsLeft() == 0 {
			break
		}
	}
	return nil
}
