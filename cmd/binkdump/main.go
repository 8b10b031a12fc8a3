/*
NAME
  binkdump

DESCRIPTION
  binkdump is a command line tool for inspecting Bink 1 files: it prints
  the container header and, optionally, decodes every audio track to a
  set of WAV files alongside the input.

AUTHOR
  AusOcean av contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements binkdump, a command line tool for inspecting
// Bink 1 files and dumping their audio tracks to WAV.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	codecbink "github.com/ausocean/bink/codec/bink"
	bink "github.com/ausocean/bink/container/bink"
	"github.com/ausocean/utils/logging"
)

// Logging configuration.
const (
	logPath      = "binkdump.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const wavFormat = 1

func main() {
	inPath := flag.String("in", "", "path to the Bink file to inspect")
	dumpAudio := flag.Bool("audio", false, "decode every audio track to a WAV file next to the input")
	maxFrames := flag.Int("frames", 0, "stop after this many frames (0 means decode all frames)")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *inPath == "" {
		log.Fatal("no input file provided, check usage")
	}

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatal("could not open input file", "error", err)
	}
	defer f.Close()

	log.Debug("parsing header", "path", *inPath)
	dec, err := bink.NewDecoder(f, bink.WithLogger(log))
	if err != nil {
		log.Fatal("could not parse Bink header", "error", err)
	}

	h := dec.Header()
	fmt.Println(h.String())
	if !h.Supported() {
		return
	}

	var encoders []*wav.Encoder
	var writers []*os.File
	if *dumpAudio {
		encoders, writers = openAudioSinks(*inPath, h, log)
		defer closeAll(encoders, writers)
	}

	log.Debug("decoding frames")
	n := 0
	for *maxFrames == 0 || n < *maxFrames {
		frame, err := dec.GetNextFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal("decode failed", "frame", n, "error", err)
		}
		if *dumpAudio {
			writeAudio(frame, encoders, log)
		}
		n++
	}
	log.Info("done", "framesDecoded", n)
}

// openAudioSinks creates one WAV encoder per audio track, named after the
// input file and the track's index.
func openAudioSinks(inPath string, h *bink.Header, log logging.Logger) ([]*wav.Encoder, []*os.File) {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	encs := make([]*wav.Encoder, len(h.AudioTracks))
	files := make([]*os.File, len(h.AudioTracks))
	for i, tr := range h.AudioTracks {
		name := filepath.Join(filepath.Dir(inPath), base+"_track"+strconv.Itoa(i)+".wav")
		out, err := os.Create(name)
		if err != nil {
			log.Fatal("could not create audio sink", "track", i, "error", err)
		}
		files[i] = out
		encs[i] = wav.NewEncoder(out, int(tr.SampleRate), 16, tr.NumChannels, wavFormat)
		log.Debug("opened audio sink", "track", i, "path", name)
	}
	return encs, files
}

// writeAudio appends one frame's decoded audio packets to their WAV
// encoders.
func writeAudio(frame *bink.DecodedFrame, encs []*wav.Encoder, log logging.Logger) {
	for i, pkt := range frame.Audio {
		if pkt == nil {
			continue
		}
		for _, blk := range pkt.Blocks {
			buf := interleave(blk)
			if err := encs[i].Write(buf); err != nil {
				log.Error("wav write failed", "track", i, "error", err)
			}
		}
	}
}

// interleave converts one decoded audio block's per-channel float samples
// into an interleaved 16-bit IntBuffer suitable for wav.Encoder.
func interleave(blk codecbink.AudioBlock) *audio.IntBuffer {
	nc := len(blk.Channels)
	n := 0
	if nc > 0 {
		n = len(blk.Channels[0])
	}
	data := make([]int, n*nc)
	for i := 0; i < n; i++ {
		for c := 0; c < nc; c++ {
			s := blk.Channels[c][i]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			data[i*nc+c] = int(s * 32767)
		}
	}
	return &audio.IntBuffer{
		Format: &audio.Format{NumChannels: nc, SampleRate: 44100},
		Data:   data,
	}
}

func closeAll(encs []*wav.Encoder, files []*os.File) {
	for _, e := range encs {
		if e != nil {
			e.Close()
		}
	}
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}
