/*
NAME
  audio.go

DESCRIPTION
  audio.go implements AudioDecoder, a per-track decoder that turns Bink
  audio payloads into PCM sample blocks (§4.4): band-quantized coefficient
  decode, an inverse DCT-III or IRDFT transform, overlap-add across
  packets, and IRDFT-stereo deinterleaving.

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
	"math"

	"github.com/ausocean/bink/codec/bink/bits"
)

// AudioDecoder holds one audio track's running state: its format
// parameters, quantizer table, band boundaries, and the per-channel
// overlap window carried from the previous packet.
type AudioDecoder struct {
	useDCT           bool
	internalChannels int
	numChannels      int
	sampleRate       int

	frameBits, frameLen, overlapLen, blockSize int
	baseQuant                                  float64
	quantTable                                 [96]float64
	numBands                                   int
	bands                                      []int

	coeffs        [][]float64
	overlapWindow [][]float64
	scratch       []float64
	seenFirst     bool
}

// NewAudioDecoder builds an AudioDecoder for one track, per the §4.4 init
// sequence.
func NewAudioDecoder(sampleRate, numChannels int, useDCT bool) *AudioDecoder {
	if numChannels > 8 {
		numChannels = 8
	}
	d := &AudioDecoder{useDCT: useDCT, numChannels: numChannels, sampleRate: sampleRate}

	switch {
	case sampleRate < 22050:
		d.frameBits = 9
	case sampleRate < 44100:
		d.frameBits = 10
	default:
		d.frameBits = 11
	}

	d.internalChannels = numChannels
	if !useDCT {
		d.sampleRate = sampleRate * numChannels
		d.frameBits += ceilLog2(numChannels) & 3
		d.internalChannels = 1
	}

	d.frameLen = 1 << d.frameBits
	d.overlapLen = d.frameLen / 16
	d.blockSize = (d.frameLen - d.overlapLen) * d.internalChannels

	num := 2.0
	if useDCT {
		num = float64(d.frameLen)
	}
	d.baseQuant = num / (math.Sqrt(float64(d.frameLen)) * 32768)

	for i := range d.quantTable {
		d.quantTable[i] = math.Exp(float64(i)*0.0664/math.Log10(math.E)) * d.baseQuant
	}

	nyquist := (d.sampleRate + 1) / 2
	k := len(audioCriticalFreqs)
	for i, cf := range audioCriticalFreqs {
		if nyquist <= cf {
			k = i
			break
		}
	}
	d.numBands = k + 1

	d.bands = make([]int, d.numBands+1)
	d.bands[0] = 2
	for i := 1; i < d.numBands; i++ {
		d.bands[i] = (audioCriticalFreqs[i-1] * d.frameLen / nyquist) &^ 1
	}
	d.bands[d.numBands] = d.frameLen

	d.coeffs = make([][]float64, d.internalChannels)
	d.overlapWindow = make([][]float64, d.internalChannels)
	for ch := range d.coeffs {
		d.coeffs[ch] = make([]float64, d.frameLen)
		d.overlapWindow[ch] = make([]float64, d.overlapLen)
	}
	d.scratch = make([]float64, d.frameLen)

	return d
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int {
	bitsNeeded := 0
	for (1 << bitsNeeded) < n {
		bitsNeeded++
	}
	return bitsNeeded
}

// readFloat29 reads one 29-bit packed float: a 5-bit exponent, a 23-bit
// mantissa, then a sign bit.
func readFloat29(r *bits.Reader) float64 {
	exp := int(r.ReadBits(5))
	mantissa := float64(r.ReadBits(23))
	sign := r.ReadBit() != 0
	v := mantissa * math.Pow(2, float64(exp-23))
	if sign {
		v = -v
	}
	return v
}

// advanceBand moves k forward while bands[k+1] <= pos, keeping qCurrent in
// sync with the quantizer assigned to the new band.
func advanceBand(k *int, bands []int, numBands int, q []float64, qCurrent *float64, pos int) {
	for *k+1 < numBands && bands[*k+1] <= pos {
		*k++
		*qCurrent = q[*k]
	}
}

// decodeChannelCoeffs fills coeffs (length frameLen) for one internal
// channel from r, per §4.4 step 2.
func (d *AudioDecoder) decodeChannelCoeffs(r *bits.Reader, coeffs []float64) {
	coeffs[0] = readFloat29(r) * d.baseQuant
	coeffs[1] = readFloat29(r) * d.baseQuant

	q := make([]float64, d.numBands)
	for b := 0; b < d.numBands; b++ {
		idx := int(r.ReadBits(8))
		if idx > 95 {
			idx = 95
		}
		q[b] = d.quantTable[idx]
	}

	k := 0
	qCurrent := q[0]
	i := 2
	for i < d.frameLen {
		var j int
		if r.ReadBit() != 0 {
			v := int(r.ReadBits(4))
			j = i + rleLen[v]
		} else {
			j = i + 8
		}
		if j > d.frameLen {
			j = d.frameLen
		}

		width := int(r.ReadBits(4))
		if width == 0 {
			for p := i; p < j; p++ {
				coeffs[p] = 0
			}
			advanceBand(&k, d.bands, d.numBands, q, &qCurrent, j)
			i = j
			continue
		}

		for p := i; p < j; p++ {
			advanceBand(&k, d.bands, d.numBands, q, &qCurrent, p)
			c := int32(r.ReadBits(width))
			if c != 0 {
				v := qCurrent * float64(c)
				if r.ReadBit() != 0 {
					v = -v
				}
				coeffs[p] = v
			} else {
				coeffs[p] = 0
			}
		}
		i = j
	}
}

// DecodePacket decodes one audio frame payload for this track into an
// AudioPacket, running sub-blocks until the bit reader is exhausted.
func (d *AudioDecoder) DecodePacket(payload []byte) *AudioPacket {
	r := bits.NewReader(payload)
	pkt := &AudioPacket{}

	for r.BitsLeft() > 0 {
		if d.useDCT {
			r.Skip(2)
		}

		for ch := 0; ch < d.internalChannels; ch++ {
			d.decodeChannelCoeffs(r, d.coeffs[ch])
			if d.useDCT {
				inverseDCTIII(d.coeffs[ch], d.scratch, 0, d.frameLen)
				for i := range d.coeffs[ch] {
					d.coeffs[ch][i] *= 4 * d.baseQuant
				}
			} else {
				inverseRDFT(d.coeffs[ch], d.frameLen)
			}
		}

		d.overlapAdd()
		pkt.Blocks = append(pkt.Blocks, d.deinterleave())
	}
	return pkt
}

// overlapAdd blends the start of each channel's freshly transformed
// samples with the tail carried from the previous sub-block (§4.4 step 3),
// then updates the overlap window for next time.
func (d *AudioDecoder) overlapAdd() {
	count := d.overlapLen * d.internalChannels
	for ch := 0; ch < d.internalChannels; ch++ {
		if d.seenFirst {
			for i := 0; i < d.overlapLen; i++ {
				j := ch + i*d.internalChannels
				d.coeffs[ch][i] = (d.overlapWindow[ch][i]*float64(count-j) + d.coeffs[ch][i]*float64(j)) / float64(count)
			}
		}
		copy(d.overlapWindow[ch], d.coeffs[ch][d.frameLen-d.overlapLen:])
	}
	d.seenFirst = true
}

// deinterleave builds one AudioBlock from the current coeffs, splitting a
// single IRDFT internal channel back into numChannels interleaved streams
// when stride > 1, or emitting each internal channel's samples directly
// otherwise.
func (d *AudioDecoder) deinterleave() AudioBlock {
	stride := (d.numChannels + d.internalChannels - 1) / d.internalChannels
	if stride > 1 {
		chLen := d.blockSize / stride
		out := make([][]float32, stride)
		for s := 0; s < stride; s++ {
			out[s] = make([]float32, chLen)
			for i := 0; i < chLen; i++ {
				out[s][i] = float32(d.coeffs[0][i*stride+s])
			}
		}
		return AudioBlock{Channels: out}
	}

	n := d.blockSize / d.internalChannels
	out := make([][]float32, d.internalChannels)
	for ch := 0; ch < d.internalChannels; ch++ {
		out[ch] = make([]float32, n)
		for i := 0; i < n; i++ {
			out[ch][i] = float32(d.coeffs[ch][i])
		}
	}
	return AudioBlock{Channels: out}
}
