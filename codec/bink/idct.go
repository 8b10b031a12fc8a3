/*
NAME
  idct.go

DESCRIPTION
  idct.go implements the integer 2-D AAN (Arai-Agui-Nakajima) IDCT-III used
  to reconstruct 8x8 INTRA/INTER blocks (§4.3.7).

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

// AAN IDCT constants, fixed-point with an implicit <<11 scale.
const (
	aanC0 int32 = 2896
	aanC1 int32 = 2217
	aanC2 int32 = 3784
	aanC3 int32 = -5352
)

// aanPass runs one 1-D, 8-point AAN IDCT-III pass. k is an additive
// rounding constant and r a destination right shift: columns use k=0, r=0;
// rows use k=127, r=8. All intermediate arithmetic is signed 32-bit with
// arithmetic right shifts, as §9 requires.
func aanPass(x [8]int32, k, r int32) [8]int32 {
	a0 := x[0] + x[4]
	a1 := x[0] - x[4]
	a2 := x[2] + x[6]
	a3 := (aanC0 * (x[2] - x[6])) >> 11
	a4 := x[5] + x[3]
	a5 := x[5] - x[3]
	a6 := x[1] + x[7]
	a7 := x[1] - x[7]

	b0 := a4 + a6
	b1 := (aanC2 * (a5 + a7)) >> 11
	b2 := ((aanC3 * a5) >> 11) - b0 + b1
	b3 := ((aanC0 * (a6 - a4)) >> 11) - b2
	b4 := ((aanC1 * a7) >> 11) + b3 - b1

	var y [8]int32
	y[0] = (a0 + k + a2 + b0) >> uint(r)
	y[1] = (a1 + k + a3 - a2 + b2) >> uint(r)
	y[2] = (a1 + k - a3 + a2 + b3) >> uint(r)
	y[3] = (a0 + k - a2 - b4) >> uint(r)
	y[4] = (a0 + k - a2 + b4) >> uint(r)
	y[5] = (a1 + k - a3 + a2 - b3) >> uint(r)
	y[6] = (a1 + k + a3 - a2 - b2) >> uint(r)
	y[7] = (a0 + k + a2 - b0) >> uint(r)
	return y
}

// idct2D applies aanPass to each of the 8 columns of block (k=0, r=0),
// then to each of the 8 resulting rows (k=127, r=8), returning the spatial
// residue/sample block.
func idct2D(block *[64]int32) [64]int32 {
	var scratch [64]int32
	for c := 0; c < 8; c++ {
		var col [8]int32
		for rI := 0; rI < 8; rI++ {
			col[rI] = block[rI*8+c]
		}
		out := aanPass(col, 0, 0)
		for rI := 0; rI < 8; rI++ {
			scratch[rI*8+c] = out[rI]
		}
	}

	var dst [64]int32
	for rI := 0; rI < 8; rI++ {
		var row [8]int32
		copy(row[:], scratch[rI*8:rI*8+8])
		out := aanPass(row, 127, 8)
		copy(dst[rI*8:rI*8+8], out[:])
	}
	return dst
}

// idctPut performs the inverse transform and writes the result directly
// into an 8x8 region of dst (stride bytes per row), truncating to uint8
// without saturation, per §9.
func idctPut(dst []byte, stride int, block *[64]int32) {
	spatial := idct2D(block)
	for rI := 0; rI < 8; rI++ {
		base := rI * stride
		for c := 0; c < 8; c++ {
			dst[base+c] = uint8(spatial[rI*8+c])
		}
	}
}

// idctAdd performs the inverse transform and adds the result (wrapping)
// into an existing 8x8 region of dst.
func idctAdd(dst []byte, stride int, block *[64]int32) {
	spatial := idct2D(block)
	for rI := 0; rI < 8; rI++ {
		base := rI * stride
		for c := 0; c < 8; c++ {
			dst[base+c] = dst[base+c] + uint8(spatial[rI*8+c])
		}
	}
}
