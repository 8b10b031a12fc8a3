/*
NAME
  frame.go

DESCRIPTION
  frame.go defines the decoded video frame and decoded audio packet data
  model (§3): a packed planar YUV(A) buffer for video, and an ordered list
  of per-channel sample blocks for audio.

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

import "github.com/go-audio/audio"

// Plane indices into Frame.Planes / Frame.LineSize.
const (
	PlaneY = iota
	PlaneU
	PlaneV
	PlaneA
)

// Frame is one decoded video frame: coded dimensions and a single packed
// buffer laid out Y, U, V, then optionally A, per §3. Planes and LineSize
// are convenience views over that same backing buffer; they do not copy.
type Frame struct {
	Width, Height int
	HasAlpha      bool

	YUV []byte

	Planes   [4][]byte
	LineSize [4]int
}

// chromaDim returns ceil(n/2).
func chromaDim(n int) int { return (n + 1) / 2 }

// NewFrame allocates a Frame sized for width x height, with or without an
// alpha plane, and sets up its plane views.
func NewFrame(width, height int, hasAlpha bool) *Frame {
	f := &Frame{Width: width, Height: height, HasAlpha: hasAlpha}
	f.alloc()
	return f
}

// alloc (re)allocates YUV if the current buffer doesn't match the frame's
// dimensions, and rebuilds the plane views either way.
func (f *Frame) alloc() {
	cw, ch := chromaDim(f.Width), chromaDim(f.Height)
	lumaSize := f.Width * f.Height
	need := lumaSize + 2*cw*ch
	if f.HasAlpha {
		need += lumaSize
	}
	if len(f.YUV) != need {
		f.YUV = make([]byte, need)
	}

	off := 0
	f.Planes[PlaneY] = f.YUV[off : off+lumaSize]
	f.LineSize[PlaneY] = f.Width
	off += lumaSize

	f.Planes[PlaneU] = f.YUV[off : off+cw*ch]
	f.LineSize[PlaneU] = cw
	off += cw * ch

	f.Planes[PlaneV] = f.YUV[off : off+cw*ch]
	f.LineSize[PlaneV] = cw
	off += cw * ch

	if f.HasAlpha {
		f.Planes[PlaneA] = f.YUV[off : off+lumaSize]
		f.LineSize[PlaneA] = f.Width
		off += lumaSize
	} else {
		f.Planes[PlaneA] = nil
		f.LineSize[PlaneA] = 0
	}
}

// CopyFrom overwrites f's buffer with src's, resizing and rebuilding plane
// views first if the dimensions differ. Used to seed a frame from the
// previous one at the start of decode (§3's "new frame = previous frame"
// invariant), to update the previous-frame reference after decode, and to
// make the independent copy returned when frame copying is enabled.
func (f *Frame) CopyFrom(src *Frame) {
	f.Width, f.Height, f.HasAlpha = src.Width, src.Height, src.HasAlpha
	f.alloc()
	copy(f.YUV, src.YUV)
}

// AudioBlock is one decoded block of PCM audio: one float32 sample array
// per channel.
type AudioBlock struct {
	Channels [][]float32
}

// AudioPacket is the decoded output of one audio frame payload for a
// single track: an ordered list of blocks.
type AudioPacket struct {
	Blocks []AudioBlock
}

// ToAudioBuffer converts b to an interleaved go-audio/audio.FloatBuffer at
// the given sample rate, for callers that want to hand decoded samples to
// another go-audio consumer instead of writing WAV directly.
func (b AudioBlock) ToAudioBuffer(sampleRate int) *audio.FloatBuffer {
	nc := len(b.Channels)
	n := 0
	if nc > 0 {
		n = len(b.Channels[0])
	}
	data := make([]float64, n*nc)
	for i := 0; i < n; i++ {
		for c := 0; c < nc; c++ {
			data[i*nc+c] = float64(b.Channels[c][i])
		}
	}
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: nc, SampleRate: sampleRate},
		Data:   data,
	}
}
