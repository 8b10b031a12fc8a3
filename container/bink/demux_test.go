/*
NAME
  demux_test.go

DESCRIPTION
  demux_test.go tests header parsing and frame slicing against small
  synthetic Bink byte fixtures built in-test.

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
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildFixture assembles a minimal, well-formed Bink 1 byte stream with
// numFrames frames, each frame containing only a video payload of
// videoPayload bytes (no audio tracks), honouring the keyframe bit on
// frame 0.
func buildFixture(subVersion byte, numFrames int, videoPayload []byte) []byte {
	var buf bytes.Buffer

	put32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	// magic: 'B','I','K', subVersion, little-endian as a u32 word.
	magic := uint32('B') | uint32('I')<<8 | uint32('K')<<16 | uint32(subVersion)<<24
	put32(magic)
	put32(uint32(44 + 4*(numFrames+1) + len(videoPayload)*numFrames - 8))
	put32(uint32(numFrames))
	put32(uint32(len(videoPayload)))
	put32(0) // unused
	put32(64) // width
	put32(48) // height
	put32(30) // fps num
	put32(1)  // fps den
	put32(0)  // video flags
	put32(0)  // numAudioTracks

	// Frame-offset table; frame bodies start right after it.
	base := uint32(44 + 4*(numFrames+1))
	for i := 0; i < numFrames; i++ {
		off := base + uint32(i)*uint32(len(videoPayload))
		if i == 0 {
			off |= 1 // keyframe.
		}
		put32(off)
	}
	put32(base + uint32(numFrames)*uint32(len(videoPayload)))

	for i := 0; i < numFrames; i++ {
		buf.Write(videoPayload)
	}

	return buf.Bytes()
}

func TestParseHeaderSupported(t *testing.T) {
	data := buildFixture('i', 3, []byte{1, 2, 3, 4})
	d, err := NewDemuxer(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDemuxer: %v", err)
	}
	if !d.Header.Supported() {
		t.Fatalf("expected revision 'i' to be supported")
	}
	if d.Header.Width != 64 || d.Header.Height != 48 {
		t.Fatalf("unexpected dimensions: %dx%d", d.Header.Width, d.Header.Height)
	}
	if d.Header.NumFrames != 3 {
		t.Fatalf("numFrames = %d, want 3", d.Header.NumFrames)
	}
	if !d.Header.Frames[0].Keyframe {
		t.Fatalf("frame 0 should be a keyframe")
	}
	if d.Header.Frames[1].Keyframe {
		t.Fatalf("frame 1 should not be a keyframe")
	}
}

func TestUnsupportedRevisionB(t *testing.T) {
	data := buildFixture('b', 1, []byte{0})
	d, err := NewDemuxer(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDemuxer: %v", err)
	}
	if d.Header.Supported() {
		t.Fatalf("revision 'b' must be unsupported")
	}
}

func TestUnsupportedRevisionE(t *testing.T) {
	data := buildFixture('e', 1, []byte{0})
	d, err := NewDemuxer(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDemuxer: %v", err)
	}
	if d.Header.Supported() {
		t.Fatalf("revision 'e' must be unsupported")
	}
}

func TestNextFrameSlicingNoAudio(t *testing.T) {
	payload := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	data := buildFixture('i', 2, payload)
	d, err := NewDemuxer(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDemuxer: %v", err)
	}
	for i := 0; i < 2; i++ {
		fp, err := d.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame %d: %v", i, err)
		}
		if len(fp.Audio) != 0 {
			t.Fatalf("expected zero audio tracks, got %d", len(fp.Audio))
		}
		if !bytes.Equal(fp.Video, payload) {
			t.Fatalf("frame %d video payload = %v, want %v", i, fp.Video, payload)
		}
	}
	if _, err := d.NextFrame(); err != io.EOF {
		t.Fatalf("expected io.EOF after last frame, got %v", err)
	}
}

func TestSliceFrameWithAudioTracks(t *testing.T) {
	var buf bytes.Buffer
	put32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }

	// Track 0: trackSize = 4 (numSamples only, empty payload).
	put32(4)
	put32(7) // numSamples
	// Track 1: trackSize = 0 (no audio this frame).
	put32(0)
	// Video payload.
	buf.Write([]byte{9, 9, 9})

	fp, err := sliceFrame(buf.Bytes(), 2)
	if err != nil {
		t.Fatalf("sliceFrame: %v", err)
	}
	if len(fp.Audio[0]) != 0 {
		t.Fatalf("track 0 payload len = %d, want 0", len(fp.Audio[0]))
	}
	if len(fp.Audio[1]) != 0 {
		t.Fatalf("track 1 payload len = %d, want 0", len(fp.Audio[1]))
	}
	if !bytes.Equal(fp.Video, []byte{9, 9, 9}) {
		t.Fatalf("video payload = %v, want [9 9 9]", fp.Video)
	}
}

func TestResetReplay(t *testing.T) {
	payload := []byte{1, 2, 3}
	data := buildFixture('i', 2, payload)
	d, err := NewDemuxer(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewDemuxer: %v", err)
	}
	first, err := d.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	d.Reset()
	second, err := d.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame after reset: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("replay mismatch (-first +second):\n%s", diff)
	}
}
