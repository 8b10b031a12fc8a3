/*
NAME
  decoder_test.go

DESCRIPTION
  decoder_test.go checks the top-level Decoder's unsupported-revision
  behaviour and its Header passthrough.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bink

import (
	"bytes"
	"io"
	"testing"
)

func TestDecoderUnsupportedRevisionYieldsEOF(t *testing.T) {
	data := buildFixture('b', 1, []byte{0, 0, 0, 0})
	d, err := NewDecoder(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if d.Header().Supported() {
		t.Fatalf("revision 'b' must be unsupported")
	}
	if _, err := d.GetNextFrame(); err != io.EOF {
		t.Fatalf("GetNextFrame on unsupported revision = %v, want io.EOF", err)
	}
}

func TestDecoderCopyFramesIndependent(t *testing.T) {
	data := buildFixture('i', 2, []byte{0, 0, 0, 0})
	d, err := NewDecoder(bytes.NewReader(data), WithCopyFrames(true))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	first, err := d.GetNextFrame()
	if err != nil {
		t.Fatalf("GetNextFrame: %v", err)
	}
	firstYUV := append([]byte(nil), first.Video.YUV...)

	second, err := d.GetNextFrame()
	if err != nil {
		t.Fatalf("GetNextFrame: %v", err)
	}
	if first.Video == second.Video {
		t.Fatalf("WithCopyFrames(true) should hand back a distinct Frame each call")
	}
	if !bytes.Equal(first.Video.YUV, firstYUV) {
		t.Fatalf("decoding a second frame must not mutate a previously returned copy")
	}
}

func TestDecoderHeaderPassthrough(t *testing.T) {
	data := buildFixture('i', 2, []byte{1, 2, 3, 4})
	d, err := NewDecoder(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if d.Header().NumFrames != 2 {
		t.Fatalf("NumFrames = %d, want 2", d.Header().NumFrames)
	}
}
