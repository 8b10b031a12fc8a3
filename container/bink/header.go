/*
NAME
  header.go

DESCRIPTION
  header.go defines the Bink 1 container's fixed header, audio track table
  and frame-offset table data model, and the parsing of the fixed 44-byte
  header and the tables that follow it (§3, §4.5, §6 of the design).

AUTHOR
  AusOcean av contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bink provides a demuxer for the Bink 1 video/audio container:
// the fixed header, the audio track table, the frame-offset table, and
// per-frame slicing into audio and video payloads. Decoding of those
// payloads is the responsibility of github.com/ausocean/bink/codec/bink.
package bink

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Sentinel errors, matching the taxonomy of §7.
var (
	// ErrSourceExhausted indicates the byte source ended before the
	// expected number of bytes were delivered.
	ErrSourceExhausted = errors.New("bink: source exhausted before expected length")

	// ErrInvalidFormat indicates a magic mismatch on the fixed header.
	ErrInvalidFormat = errors.New("bink: invalid magic")

	// ErrUnsupportedFormat indicates a header that parses but whose
	// version/revision is not one this decoder supports.
	ErrUnsupportedFormat = errors.New("bink: unsupported bink revision")
)

const fixedHeaderSize = 44

// AudioTrackHeader describes one audio track, as read from the audio track
// table following the fixed header.
type AudioTrackHeader struct {
	SampleRate   uint16
	Flags        uint16
	TrackID      uint32
	NumChannels  int // 1 or 2, channels above 2 are rejected per §3.
	UseDCT       bool
	Stereo       bool
}

// FrameEntry is one entry of the frame-offset table: the frame's byte
// offset in the source (with the keyframe bit already masked out) and its
// byte length (derived from the next entry's offset).
type FrameEntry struct {
	Offset    int64
	Size      int64
	Keyframe  bool
}

// Header is the Bink 1 file header: the fixed header fields plus the
// parsed audio track and frame-offset tables.
type Header struct {
	Version    int  // 1 (BIK) or 2 (BK2).
	SubVersion byte // ASCII revision letter, e.g. 'i'.

	FileSize         int64
	NumFrames        int
	LargestFrameSize uint32
	Width, Height    int
	FPSNum, FPSDen   uint32

	HasAlpha           bool
	HasSwappedUVPlanes bool
	IsGrayscale        bool
	Scaling            int

	AudioTracks []AudioTrackHeader
	Frames      []FrameEntry
}

// Supported reports whether this decoder can produce frames for the given
// header: version 1, and subVersion strictly between 'c' and 'j',
// excluding 'e' — equivalently, subVersion in {'d','f','g','h','i'}.
func (h *Header) Supported() bool {
	return h.Version == 1 && h.SubVersion > 'c' && h.SubVersion < 'j' && h.SubVersion != 'e'
}

// String gives a short human-readable summary of the header, in the style
// of the teacher corpus's packet-printing helpers.
func (h *Header) String() string {
	return fmt.Sprintf("bink v%d rev %c: %dx%d, %d frames, %d audio tracks",
		h.Version, h.SubVersion, h.Width, h.Height, h.NumFrames, len(h.AudioTracks))
}

// readFull reads exactly len(buf) bytes from r, translating io.EOF and
// io.ErrUnexpectedEOF into ErrSourceExhausted.
func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return errors.Wrap(ErrSourceExhausted, err.Error())
	}
	return nil
}

// parseHeader reads and parses the fixed 44-byte header, the audio track
// table and the frame-offset table from src, which must be positioned at
// the start of the file.
func parseHeader(src io.Reader) (*Header, error) {
	var fixed [fixedHeaderSize]byte
	if err := readFull(src, fixed[:]); err != nil {
		return nil, fmt.Errorf("could not read fixed header: %w", err)
	}

	word := func(off int) uint32 { return binary.LittleEndian.Uint32(fixed[off:]) }

	w0 := word(0)
	magic := w0 & 0x00ffffff
	var version int
	switch magic {
	case 0x004b4942: // "BIK"
		version = 1
	case 0x0032424b: // "BK2"
		version = 2
	default:
		return nil, ErrInvalidFormat
	}

	h := &Header{
		Version:          version,
		SubVersion:       byte(w0 >> 24),
		FileSize:         int64(word(4)) + 8,
		NumFrames:        int(word(8)),
		LargestFrameSize: word(12),
		Width:            int(word(20)),
		Height:           int(word(24)),
		FPSNum:           word(28),
		FPSDen:           word(32),
	}

	flags := word(36)
	h.HasAlpha = flags&(1<<20) != 0
	h.IsGrayscale = flags&(1<<17) != 0
	h.Scaling = int((flags >> 28) & 0xf)
	h.HasSwappedUVPlanes = h.SubVersion > 'c'

	numAudioTracks := int(word(40))

	if numAudioTracks > 0 {
		tableBuf := make([]byte, 12*numAudioTracks)
		if err := readFull(src, tableBuf); err != nil {
			return nil, fmt.Errorf("could not read audio track table: %w", err)
		}
		h.AudioTracks = make([]AudioTrackHeader, numAudioTracks)
		for i := 0; i < numAudioTracks; i++ {
			h.AudioTracks[i].SampleRate = binary.LittleEndian.Uint16(tableBuf[2*i:])
		}
		for i := 0; i < numAudioTracks; i++ {
			h.AudioTracks[i].Flags = binary.LittleEndian.Uint16(tableBuf[2*numAudioTracks+2*i:])
		}
		for i := 0; i < numAudioTracks; i++ {
			h.AudioTracks[i].TrackID = binary.LittleEndian.Uint32(tableBuf[4*numAudioTracks+4*i:])
		}
		for i := range h.AudioTracks {
			t := &h.AudioTracks[i]
			t.Stereo = t.Flags&0x2000 != 0
			if t.Stereo {
				t.NumChannels = 2
			} else {
				t.NumChannels = 1
			}
			if t.NumChannels > 8 {
				t.NumChannels = 8
			}
			t.UseDCT = t.Flags&0x1000 != 0
		}
	}

	offBuf := make([]byte, 4*(h.NumFrames+1))
	if err := readFull(src, offBuf); err != nil {
		return nil, fmt.Errorf("could not read frame-offset table: %w", err)
	}
	raw := make([]uint32, h.NumFrames+1)
	for i := range raw {
		raw[i] = binary.LittleEndian.Uint32(offBuf[4*i:])
	}
	h.Frames = make([]FrameEntry, h.NumFrames)
	for i := 0; i < h.NumFrames; i++ {
		off := raw[i] &^ 1
		end := raw[i+1] &^ 1
		h.Frames[i] = FrameEntry{
			Offset:   int64(off),
			Size:     int64(end - off),
			Keyframe: raw[i]&1 != 0,
		}
	}

	return h, nil
}
