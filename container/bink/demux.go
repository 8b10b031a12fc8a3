/*
NAME
  demux.go

DESCRIPTION
  demux.go implements the Bink 1 demuxer: parsing the fixed header and
  tables once, then slicing each frame's bytes into per-audio-track
  payloads and a trailing video payload (§4.5, §6).

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

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Source is the external, offset-addressable byte source the demuxer reads
// from. An implementation need only support one outstanding reader; a Seek
// call cancels the in-flight read. *os.File and *bytes.Reader both satisfy
// this directly.
type Source interface {
	io.Reader
	io.Seeker
}

// FramePayload is one demuxed frame: the per-track audio payloads (in
// track-header order) and the trailing video payload.
type FramePayload struct {
	Audio [][]byte
	Video []byte
}

// Demuxer parses a Bink 1 container's header once, then slices successive
// frames out of src on demand.
type Demuxer struct {
	src    Source
	Header *Header

	next int // index of the next frame to be sliced.
}

// NewDemuxer parses the fixed header and tables from src and returns a
// Demuxer ready to slice frames in order, starting at frame 0.
func NewDemuxer(src Source) (*Demuxer, error) {
	h, err := parseHeader(src)
	if err != nil {
		return nil, err
	}
	return &Demuxer{src: src, Header: h}, nil
}

// NumFrames returns the total number of frames described by the header.
func (d *Demuxer) NumFrames() int { return d.Header.NumFrames }

// Done reports whether every frame has already been sliced.
func (d *Demuxer) Done() bool { return d.next >= len(d.Header.Frames) }

// NextFrame slices the next frame's bytes into its audio and video
// payloads. It returns io.EOF once every frame has been produced.
func (d *Demuxer) NextFrame() (*FramePayload, error) {
	if d.Done() {
		return nil, io.EOF
	}
	entry := d.Header.Frames[d.next]
	d.next++

	if _, err := d.src.Seek(entry.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("could not seek to frame %d: %w", d.next-1, err)
	}

	buf := make([]byte, entry.Size)
	if err := readFull(d.src, buf); err != nil {
		return nil, fmt.Errorf("could not read frame %d body: %w", d.next-1, err)
	}

	return sliceFrame(buf, len(d.Header.AudioTracks))
}

// Reset rewinds the demuxer so the next call to NextFrame reproduces frame
// 0, without re-parsing the header.
func (d *Demuxer) Reset() {
	d.next = 0
}

// SkipFrame advances past the next frame without returning its payload.
// The frame's bytes are read and dropped, not decoded; Decoder.SkipFrame is
// the variant that decodes and discards.
func (d *Demuxer) SkipFrame() error {
	_, err := d.NextFrame()
	return err
}

// sliceFrame splits one frame's raw bytes into numTracks audio payloads
// (each prefixed in the stream by a u32 trackSize and, when trackSize > 3,
// a u32 sample count) followed by the video payload occupying the rest of
// the frame.
func sliceFrame(buf []byte, numTracks int) (*FramePayload, error) {
	fp := &FramePayload{Audio: make([][]byte, numTracks)}

	off := 0
	for i := 0; i < numTracks; i++ {
		if off+4 > len(buf) {
			return nil, fmt.Errorf("frame body truncated reading track %d size", i)
		}
		trackSize := int(binary.LittleEndian.Uint32(buf[off:]))
		off += 4

		payloadStart := off
		if trackSize > 3 {
			payloadStart += 4 // skip the numSamples field; not needed to decode the payload.
		}
		payloadEnd := off + trackSize
		if payloadStart > len(buf) || payloadEnd > len(buf) || payloadEnd < payloadStart {
			return nil, fmt.Errorf("frame body truncated reading track %d payload", i)
		}
		fp.Audio[i] = buf[payloadStart:payloadEnd]
		off += trackSize
	}

	if off > len(buf) {
		return nil, fmt.Errorf("frame body truncated before video payload")
	}
	fp.Video = buf[off:]
	return fp, nil
}
