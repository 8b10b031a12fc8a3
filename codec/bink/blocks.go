/*
NAME
  blocks.go

DESCRIPTION
  blocks.go implements the ten block-type handlers (§4.3.4), the SCALED
  macroblock's sub-block dispatch, the RUN block's zig-zag coefficient
  fill, motion-compensation copy (§4.3.5), and the plane-level block-row
  decode loop that drives them all.

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

// Block types, per §4.3.4's dispatch table.
const (
	blkSkip = iota
	blkScaled
	blkMotion
	blkRun
	blkResidue
	blkIntra
	blkFill
	blkInter
	blkPattern
	blkRaw
)

// decodePlane runs the full block-row loop for one plane (§4.3.2): it
// owns the plane's parameter streams via planeDecoder and dispatches each
// 8x8 (or 16x16, for SCALED) block in raster order.
func decodePlane(r *bits.Reader, subVersion byte, blockWidth, blockHeight int, dst, prev []byte, stride int) error {
	var p planeDecoder
	p.setupPlane(r, subVersion, blockWidth, blockHeight, dst, prev, stride)

	for by := 0; by < blockHeight; by++ {
		p.decodeRow()
		for bx := 0; bx < blockWidth; {
			blockType := uint8(p.streams[stBlockTypes].next())
			dstOff := by*8*stride + bx*8
			cols, err := dispatchBlock(&p, by, dstOff, blockType)
			if err != nil {
				return err
			}
			bx += cols
		}
	}
	return nil
}

// dispatchBlock decodes one block-type entry at dstOff, returning how many
// block-columns it consumed (1, except SCALED's 2).
func dispatchBlock(p *planeDecoder, by, dstOff int, blockType uint8) (int, error) {
	switch blockType {
	case blkSkip:
		return 1, nil

	case blkScaled:
		if by%2 != 0 {
			// Already painted by the macroblock decoded on the row above.
			return 2, nil
		}
		if err := decodeScaledBlock(p, dstOff); err != nil {
			return 0, err
		}
		return 2, nil

	case blkMotion:
		motionCopy(p, dstOff)
		return 1, nil

	case blkRun:
		var blk [64]byte
		decodeRunBlock(p, &blk)
		writeBlock(p.dst, dstOff, p.stride, &blk)
		return 1, nil

	case blkResidue:
		motionCopy(p, dstOff)
		var coeff [64]int32
		decodeBlock(p.r, &coeff, -1)
		idctAdd(p.dst[dstOff:], p.stride, &coeff)
		return 1, nil

	case blkIntra:
		var coeff [64]int32
		coeff[0] = p.streams[stIntraDC].next()
		decodeBlock(p.r, &coeff, 0)
		idctPut(p.dst[dstOff:], p.stride, &coeff)
		return 1, nil

	case blkFill:
		v := byte(p.streams[stColors].next())
		fillBlock(p.dst, dstOff, p.stride, 8, 8, v)
		return 1, nil

	case blkInter:
		motionCopy(p, dstOff)
		var coeff [64]int32
		coeff[0] = p.streams[stInterDC].next()
		decodeBlock(p.r, &coeff, 1024)
		idctAdd(p.dst[dstOff:], p.stride, &coeff)
		return 1, nil

	case blkPattern:
		c0 := byte(p.streams[stColors].next())
		c1 := byte(p.streams[stColors].next())
		for row := 0; row < 8; row++ {
			mask := byte(p.streams[stPattern].next())
			base := dstOff + row*p.stride
			for col := 0; col < 8; col++ {
				if mask&(1<<uint(col)) != 0 {
					p.dst[base+col] = c1
				} else {
					p.dst[base+col] = c0
				}
			}
		}
		return 1, nil

	case blkRaw:
		for row := 0; row < 8; row++ {
			base := dstOff + row*p.stride
			for col := 0; col < 8; col++ {
				p.dst[base+col] = byte(p.streams[stColors].next())
			}
		}
		return 1, nil

	default:
		return 0, ErrCorruptStream
	}
}

// decodeScaledBlock decodes a 16x16 SCALED macroblock: one 8x8 sub-block
// (RAW, INTRA, RUN or PATTERN) or a direct 16x16 FILL, then a 2x
// nearest-neighbor upsample into dst for the non-FILL cases.
func decodeScaledBlock(p *planeDecoder, dstOff int) error {
	subType := uint8(p.streams[stSubBlockTypes].next())

	if subType == blkFill {
		v := byte(p.streams[stColors].next())
		fillBlock(p.dst, dstOff, p.stride, 16, 16, v)
		return nil
	}

	var tmp [64]byte
	switch subType {
	case blkRaw:
		for i := range tmp {
			tmp[i] = byte(p.streams[stColors].next())
		}
	case blkIntra:
		var coeff [64]int32
		coeff[0] = p.streams[stIntraDC].next()
		decodeBlock(p.r, &coeff, 0)
		sp := idct2D(&coeff)
		for i, v := range sp {
			tmp[i] = uint8(v)
		}
	case blkRun:
		decodeRunBlock(p, &tmp)
	case blkPattern:
		c0 := byte(p.streams[stColors].next())
		c1 := byte(p.streams[stColors].next())
		for row := 0; row < 8; row++ {
			mask := byte(p.streams[stPattern].next())
			for col := 0; col < 8; col++ {
				if mask&(1<<uint(col)) != 0 {
					tmp[row*8+col] = c1
				} else {
					tmp[row*8+col] = c0
				}
			}
		}
	default:
		return ErrCorruptStream
	}

	for row := 0; row < 8; row++ {
		base := dstOff + (row*2)*p.stride
		next := base + p.stride
		for col := 0; col < 8; col++ {
			v := tmp[row*8+col]
			p.dst[base+col*2] = v
			p.dst[base+col*2+1] = v
			p.dst[next+col*2] = v
			p.dst[next+col*2+1] = v
		}
	}
	return nil
}

// decodeRunBlock fills blk (in raster, row*8+col order) by walking one of
// the sixteen fixed scan permutations, painting runs of a single COLORS
// value or runs of individually-coded COLORS values, per §4.3.4's "RUN
// zig-zag" rule. Position 63 is always explicitly coded.
func decodeRunBlock(p *planeDecoder, blk *[64]byte) {
	scanID := p.r.ReadBits(4)
	pattern := &bikPatterns[scanID]

	written := 0
	for written < 63 {
		run := int(p.streams[stRun].next()) + 1
		if run > 63-written {
			run = 63 - written
		}
		if p.r.ReadBit() == 1 {
			v := byte(p.streams[stColors].next())
			for i := 0; i < run; i++ {
				blk[pattern[written]] = v
				written++
			}
		} else {
			for i := 0; i < run; i++ {
				blk[pattern[written]] = byte(p.streams[stColors].next())
				written++
			}
		}
	}
	blk[pattern[63]] = byte(p.streams[stColors].next())
}

// motionCopy implements §4.3.5: copy an 8x8 region from the previous
// frame's plane at (dstOff + xOff + yOff*stride) into the current plane at
// dstOff. When the computed source offset equals dstOff, this is a no-op:
// the destination plane was pre-seeded as a copy of the previous frame.
func motionCopy(p *planeDecoder, dstOff int) {
	xOff := int(int8(p.streams[stXOff].next()))
	yOff := int(int8(p.streams[stYOff].next()))
	srcOff := dstOff + xOff + yOff*p.stride
	if srcOff == dstOff {
		return
	}
	for row := 0; row < 8; row++ {
		d := dstOff + row*p.stride
		s := srcOff + row*p.stride
		copy(p.dst[d:d+8], p.prev[s:s+8])
	}
}

// writeBlock copies a flat 8x8 byte block into dst at off with the given
// stride.
func writeBlock(dst []byte, off, stride int, blk *[64]byte) {
	for row := 0; row < 8; row++ {
		copy(dst[off+row*stride:off+row*stride+8], blk[row*8:row*8+8])
	}
}

// fillBlock paints a w x h rectangle of dst at off with v.
func fillBlock(dst []byte, off, stride, w, h int, v byte) {
	for row := 0; row < h; row++ {
		base := off + row*stride
		for col := 0; col < w; col++ {
			dst[base+col] = v
		}
	}
}
