/*
NAME
  vm.go

DESCRIPTION
  vm.go implements the coefficient/residue mini-VM (§4.3.6): a small
  bitplane-driven tree walk that fills the 64 entries of a transform block
  either as quantized DCT coefficients or as a signed residue.

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

import "github.com/ausocean/bink/codec/bink/bits"

// vmState holds the mini-VM's working queues for one block decode.
type vmState struct {
	coeffList [128]int
	modeList  [128]int

	listStart, listEnd int

	coeffIndex []int
	masksCount int
	bits       int32
}

// seed sets up the initial three subdivision nodes common to both modes,
// then mode-specific state, per §4.3.6.
func (s *vmState) seed(r *bits.Reader, residue bool) {
	s.coeffList[64], s.coeffList[65], s.coeffList[66] = 4, 24, 44
	s.modeList[64], s.modeList[65], s.modeList[66] = 0, 0, 0
	s.listStart = 64

	if residue {
		s.listEnd = 68
		s.coeffList[67] = 0
		s.modeList[67] = 2
		s.masksCount = int(r.ReadBits(7))
		s.bits = 1 << r.ReadBits(3)
		return
	}

	s.listEnd = 70
	s.coeffList[67], s.coeffList[68], s.coeffList[69] = 1, 2, 3
	s.modeList[67], s.modeList[68], s.modeList[69] = 3, 3, 3
	s.bits = int32(r.ReadBits(4)) - 1
}

// emitLeaf writes one decoded coefficient at tree node id i into block,
// either as a residue adjustment magnitude or as a signed DCT magnitude,
// and records the position for the residue-refinement and quantization
// passes. It returns false if a residue mask budget underflow means
// decoding of this block must stop immediately.
func (s *vmState) emitLeaf(r *bits.Reader, block *[64]int32, i int, residue bool) bool {
	pos := scanAt(i)
	if residue {
		block[pos] = r.ApplySign(s.bits)
		s.coeffIndex = append(s.coeffIndex, i)
		s.masksCount--
		return s.masksCount >= 0
	}

	var v int32
	if s.bits == 0 {
		v = 1 - 2*int32(r.ReadBit())
	} else {
		mag := r.ReadBits(int(s.bits)) | (1 << uint(s.bits))
		v = r.ApplySign(int32(mag))
	}
	block[pos] = v
	s.coeffIndex = append(s.coeffIndex, i)
	return true
}

// decodeBlock runs the mini-VM over block (already zeroed by the caller).
// quantTableStart >= 0 selects DCT mode with that quantization-table base
// offset; a negative value selects residue mode.
func decodeBlock(r *bits.Reader, block *[64]int32, quantTableStart int) {
	residue := quantTableStart < 0
	var s vmState
	s.seed(r, residue)

	for {
		if residue {
			if s.bits == 0 {
				break
			}
		} else if s.bits < 0 {
			break
		}

		if residue {
			for _, i := range s.coeffIndex {
				pos := scanAt(i)
				if r.ReadBit() != 0 {
					if block[pos] < 0 {
						block[pos] -= s.bits
					} else {
						block[pos] += s.bits
					}
					s.masksCount--
					if s.masksCount < 0 {
						return
					}
				}
			}
		}

		for listPos := s.listStart; listPos < s.listEnd; listPos++ {
			cc, mode := s.coeffList[listPos], s.modeList[listPos]
			if cc == 0 && mode == 0 {
				continue
			}
			if r.ReadBit() == 0 {
				continue
			}

			switch mode {
			case 0, 2:
				if mode == 0 {
					s.coeffList[listPos] = cc + 4
					s.modeList[listPos] = 1
				} else {
					s.coeffList[listPos] = 0
					s.modeList[listPos] = 0
				}
				for i := cc; i < cc+4; i++ {
					if r.ReadBit() == 1 {
						s.listStart--
						s.coeffList[s.listStart] = i
						s.modeList[s.listStart] = 3
					} else if !s.emitLeaf(r, block, i, residue) {
						return
					}
				}

			case 1:
				s.modeList[listPos] = 2
				s.coeffList[s.listEnd] = cc + 4
				s.modeList[s.listEnd] = 2
				s.listEnd++
				s.coeffList[s.listEnd] = cc + 8
				s.modeList[s.listEnd] = 2
				s.listEnd++
				s.coeffList[s.listEnd] = cc + 12
				s.modeList[s.listEnd] = 2
				s.listEnd++

			case 3:
				s.coeffList[listPos] = 0
				s.modeList[listPos] = 0
				if !s.emitLeaf(r, block, cc, residue) {
					return
				}
			}
		}

		if residue {
			s.bits >>= 1
		} else {
			s.bits--
		}
	}

	if !residue {
		qIdx := int(r.ReadBits(4))
		qOff := (qIdx << 6) + quantTableStart
		block[0] = block[0] * (quant[qOff] >> 11)
		for _, i := range s.coeffIndex {
			p := scanAt(i)
			block[p] = block[p] * (quant[qOff+i] >> 11)
		}
	}
}
