/*
NAME
  audio_test.go

DESCRIPTION
  audio_test.go checks AudioDecoder's derived format parameters and the
  29-bit packed float reader.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bink

import (
	"math"
	"testing"

	"github.com/ausocean/bink/codec/bink/bits"
)

func TestNewAudioDecoderFrameBits(t *testing.T) {
	cases := []struct {
		rate int
		want int
	}{
		{11025, 9},
		{22050, 10},
		{44100, 11},
	}
	for _, c := range cases {
		d := NewAudioDecoder(c.rate, 1, true)
		if d.frameBits != c.want {
			t.Errorf("rate %d: frameBits = %d, want %d", c.rate, d.frameBits, c.want)
		}
		if d.frameLen != 1<<c.want {
			t.Errorf("rate %d: frameLen = %d, want %d", c.rate, d.frameLen, 1<<c.want)
		}
		if d.overlapLen != d.frameLen/16 {
			t.Errorf("rate %d: overlapLen = %d, want %d", c.rate, d.overlapLen, d.frameLen/16)
		}
	}
}

func TestNewAudioDecoderIRDFTSingleInternalChannel(t *testing.T) {
	d := NewAudioDecoder(44100, 2, false)
	if d.internalChannels != 1 {
		t.Fatalf("internalChannels = %d, want 1", d.internalChannels)
	}
	if d.sampleRate != 44100*2 {
		t.Fatalf("sampleRate = %d, want %d", d.sampleRate, 44100*2)
	}
}

func TestNewAudioDecoderBandsMonotonic(t *testing.T) {
	d := NewAudioDecoder(44100, 1, true)
	if d.bands[0] != 2 {
		t.Fatalf("bands[0] = %d, want 2", d.bands[0])
	}
	for i := 1; i <= d.numBands; i++ {
		if d.bands[i] < d.bands[i-1] {
			t.Fatalf("bands not monotonic: bands[%d]=%d < bands[%d]=%d", i, d.bands[i], i-1, d.bands[i-1])
		}
	}
	if d.bands[d.numBands] != d.frameLen {
		t.Fatalf("bands[numBands] = %d, want frameLen %d", d.bands[d.numBands], d.frameLen)
	}
}

func TestReadFloat29Zero(t *testing.T) {
	r := bits.NewReader([]byte{0, 0, 0, 0})
	v := readFloat29(r)
	if v != 0 {
		t.Fatalf("readFloat29 of all-zero bits = %v, want 0", v)
	}
}

// packBitsLSB packs a sequence of 0/1 values into bytes using the same
// least-significant-bit-first convention as bits.Reader.
func packBitsLSB(bitVals []int) []byte {
	buf := make([]byte, (len(bitVals)+7)/8)
	for i, b := range bitVals {
		if b != 0 {
			buf[i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}

func TestReadFloat29Sign(t *testing.T) {
	// exponent=23 (so 2^(exp-23)=1), mantissa=1, sign=1 -> value = -1.
	var seq []int
	for _, v := range []int{1, 1, 1, 0, 1} { // exp = 23, LSB first.
		seq = append(seq, v)
	}
	mantissaBits := make([]int, 23)
	mantissaBits[0] = 1 // mantissa = 1, LSB first.
	seq = append(seq, mantissaBits...)
	seq = append(seq, 1) // sign bit.

	r := bits.NewReader(packBitsLSB(seq))
	v := readFloat29(r)
	if math.Abs(v+1) > 1e-9 {
		t.Fatalf("readFloat29 = %v, want -1", v)
	}
}

func TestCeilLog2(t *testing.T) {
	cases := map[int]int{1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3}
	for n, want := range cases {
		if got := ceilLog2(n); got != want {
			t.Errorf("ceilLog2(%d) = %d, want %d", n, got, want)
		}
	}
}
