/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements Decoder, the top-level entry point tying a Demuxer
  to the video and per-track audio decoders in github.com/ausocean/bink/codec/bink
  (§5, §6): GetNextFrame produces one decoded video frame plus any audio
  packets sliced alongside it, in strict encoded order.

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
	"io"

	codecbink "github.com/ausocean/bink/codec/bink"
	"github.com/ausocean/bink/codec/bink/bits"
)

// DecodedFrame pairs one decoded video frame with whatever audio packets
// were sliced alongside it, one per track in header order.
type DecodedFrame struct {
	Video *codecbink.Frame
	Audio []*codecbink.AudioPacket
}

// Decoder wraps a Demuxer with a running VideoDecoder and one AudioDecoder
// per track, producing decoded frames strictly in encoded order (§5). A
// Decoder is not safe for concurrent use.
type Decoder struct {
	demux *Demuxer
	cfg   Config
	video codecbink.VideoDecoder
	audio []*codecbink.AudioDecoder

	cur, prev *codecbink.Frame
}

// NewDecoder parses src's header via a new Demuxer and, if the revision is
// supported, builds the video/audio decoding state needed to produce
// frames. An unsupported file still yields a usable Decoder whose Header
// is accessible but whose GetNextFrame always returns io.EOF, per §4.5's
// support predicate.
func NewDecoder(src Source, opts ...Option) (*Decoder, error) {
	dm, err := NewDemuxer(src)
	if err != nil {
		return nil, err
	}
	d := &Decoder{demux: dm, cfg: newConfig(opts)}
	if !dm.Header.Supported() {
		d.cfg.Logger.Warning("unsupported bink revision", "subVersion", string(rune(dm.Header.SubVersion)))
		return d, nil
	}

	h := dm.Header
	d.cur = codecbink.NewFrame(h.Width, h.Height, h.HasAlpha)
	d.prev = codecbink.NewFrame(h.Width, h.Height, h.HasAlpha)

	d.audio = make([]*codecbink.AudioDecoder, len(h.AudioTracks))
	for i, tr := range h.AudioTracks {
		d.audio[i] = codecbink.NewAudioDecoder(int(tr.SampleRate), tr.NumChannels, tr.UseDCT)
	}
	return d, nil
}

// Header returns the parsed container header.
func (d *Decoder) Header() *Header { return d.demux.Header }

// GetNextFrame decodes and returns the next frame's video and audio. It
// returns io.EOF once every frame has been produced, or immediately for an
// unsupported revision.
func (d *Decoder) GetNextFrame() (*DecodedFrame, error) {
	if !d.demux.Header.Supported() {
		return nil, io.EOF
	}

	fp, err := d.demux.NextFrame()
	if err != nil {
		return nil, err
	}

	d.cur.CopyFrom(d.prev)
	r := bits.NewReader(fp.Video)
	if err := d.video.DecodeFrame(r, d.cur, d.prev, d.demux.Header.SubVersion); err != nil {
		return nil, err
	}
	d.prev.CopyFrom(d.cur)
	d.cfg.Logger.Debug("decoded frame", "width", d.cur.Width, "height", d.cur.Height)

	out := &DecodedFrame{Video: d.cur, Audio: make([]*codecbink.AudioPacket, len(d.audio))}
	if d.cfg.CopyFrames {
		clone := codecbink.NewFrame(d.cur.Width, d.cur.Height, d.cur.HasAlpha)
		clone.CopyFrom(d.cur)
		out.Video = clone
	}
	for i, ad := range d.audio {
		if len(fp.Audio[i]) == 0 {
			continue
		}
		out.Audio[i] = ad.DecodePacket(fp.Audio[i])
	}
	return out, nil
}

// Reset rewinds the demuxer, clears the video decoder's previous-frame
// reference, and rebuilds each track's audio decoder, so replay from frame
// 0 reproduces exactly what the first decode produced.
func (d *Decoder) Reset() {
	d.cfg.Logger.Debug("resetting decoder")
	d.demux.Reset()
	if d.prev == nil {
		return
	}
	for i := range d.prev.YUV {
		d.prev.YUV[i] = 0
	}
	for i, tr := range d.demux.Header.AudioTracks {
		d.audio[i] = codecbink.NewAudioDecoder(int(tr.SampleRate), tr.NumChannels, tr.UseDCT)
	}
}

// SkipFrame decodes and discards the next frame. §5 requires forward
// seeking to replay intermediate frames rather than skip their raw bytes,
// since each frame's decode depends on the previous frame's plane buffers.
func (d *Decoder) SkipFrame() error {
	_, err := d.GetNextFrame()
	return err
}
