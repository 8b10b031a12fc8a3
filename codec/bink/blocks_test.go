/*
NAME
  blocks_test.go

DESCRIPTION
  blocks_test.go exercises the block-copy/fill helpers, motion-compensation
  copy, and the RUN block's zig-zag fill in isolation from Huffman decode.

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
	"testing"

	"github.com/ausocean/bink/codec/bink/bits"
)

func TestFillBlock(t *testing.T) {
	dst := make([]byte, 8*8)
	fillBlock(dst, 0, 8, 8, 8, 5)
	for i, v := range dst {
		if v != 5 {
			t.Fatalf("dst[%d] = %d, want 5", i, v)
		}
	}
}

func TestWriteBlock(t *testing.T) {
	var blk [64]byte
	for i := range blk {
		blk[i] = byte(i)
	}
	dst := make([]byte, 64)
	writeBlock(dst, 0, 8, &blk)
	if !bytes.Equal(dst, blk[:]) {
		t.Fatalf("writeBlock mismatch")
	}
}

func TestMotionCopyNoOpAtSameOffset(t *testing.T) {
	var p planeDecoder
	p.stride = 8
	p.dst = make([]byte, 64)
	p.prev = make([]byte, 64)
	for i := range p.prev {
		p.prev[i] = byte(i + 1)
	}
	copy(p.dst, p.prev)
	before := append([]byte(nil), p.dst...)

	p.streams[stXOff].values = []int32{0}
	p.streams[stYOff].values = []int32{0}
	motionCopy(&p, 0)

	if !bytes.Equal(p.dst, before) {
		t.Fatalf("dst mutated by a zero-offset motion copy")
	}
}

func TestMotionCopyCopiesFromPrev(t *testing.T) {
	var p planeDecoder
	p.stride = 16
	p.dst = make([]byte, 16*16)
	p.prev = make([]byte, 16*16)
	for i := range p.prev {
		p.prev[i] = byte(i)
	}

	p.streams[stXOff].values = []int32{2}
	p.streams[stYOff].values = []int32{1}
	motionCopy(&p, 0)

	srcOff := 0 + 2 + 1*16
	for row := 0; row < 8; row++ {
		got := p.dst[row*16 : row*16+8]
		want := p.prev[srcOff+row*16 : srcOff+row*16+8]
		if !bytes.Equal(got, want) {
			t.Fatalf("row %d: got %v, want %v", row, got, want)
		}
	}
}

func TestDecodeRunBlockFillsAllPositions(t *testing.T) {
	var p planeDecoder
	p.streams[stRun].values = []int32{62}
	p.streams[stColors].values = []int32{9, 7}
	// 4 bits scanId=0, then one flag bit = 1 (single-color run branch).
	p.r = bits.NewReader([]byte{0b00010000})

	var blk [64]byte
	decodeRunBlock(&p, &blk)

	for i := 0; i < 63; i++ {
		pos := bikScan[i]
		if blk[pos] != 9 {
			t.Fatalf("blk[%d] (scan slot %d) = %d, want 9", pos, i, blk[pos])
		}
	}
	lastPos := bikScan[63]
	if blk[lastPos] != 7 {
		t.Fatalf("blk[%d] (scan slot 63) = %d, want 7", lastPos, blk[lastPos])
	}
}
