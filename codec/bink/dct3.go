/*
NAME
  dct3.go

DESCRIPTION
  dct3.go implements the recursive Lee (1984) inverse DCT-III used by the
  audio decoder's DCT sub-block transform (§4.4.1).

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

import "math"

// dctCosTables caches, per recursion size n, the reciprocal-cosine factors
// 1/(2*cos((i+0.5)*pi/n)) for i in 0..n/2-1, so repeated inverse transforms
// of the same frame length don't recompute them.
var dctCosTables = map[int][]float64{}

func dctCosTable(n int) []float64 {
	if t, ok := dctCosTables[n]; ok {
		return t
	}
	half := n / 2
	t := make([]float64, half)
	for i := 0; i < half; i++ {
		t[i] = 1.0 / (2.0 * math.Cos((float64(i)+0.5)*math.Pi/float64(n)))
	}
	dctCosTables[n] = t
	return t
}

// inverseDCTIII runs the recursive Lee inverse DCT-III over data[off:off+n]
// in place, using scratch as working storage (must be at least as long as
// data).
func inverseDCTIII(data, scratch []float64, off, n int) {
	if n < 2 {
		return
	}
	half := n / 2

	scratch[off] = data[off]
	scratch[off+half] = data[off+1]
	for i := 1; i < half; i++ {
		scratch[off+i] = data[off+2*i]
		scratch[off+i+half] = data[off+2*i-1] + data[off+2*i+1]
	}

	inverseDCTIII(scratch, data, off, half)
	inverseDCTIII(scratch, data, off+half, half)

	cos := dctCosTable(n)
	for i := 0; i < half; i++ {
		x := scratch[off+i]
		y := scratch[off+i+half] * cos[i]
		data[off+i] = x + y
		data[off+n-1-i] = x - y
	}
}
