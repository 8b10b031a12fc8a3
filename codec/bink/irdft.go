/*
NAME
  irdft.go

DESCRIPTION
  irdft.go implements the IRDFT used by IRDFT-mode audio sub-blocks
  (§4.4.2): pre-combine even/odd components of a packed real array, then
  hand off to a half-size forward FFT.

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

	"github.com/mjibson/go-dsp/fft"
)

// inverseRDFT runs the inverse real DFT over data[0:n] in place, per
// §4.4.2's packing: data[0]=Re[0], data[1]=Re[n/2], data[2k]=Re[k],
// data[2k+1]=Im[k] for k=1..n/2-1.
func inverseRDFT(data []float64, n int) {
	theta := 2 * math.Pi / float64(n)

	d0, d1 := data[0], data[1]
	data[0] = (d0 + d1) / 2
	data[1] = (d0 - d1) / 2

	for i := 1; i < n/4; i++ {
		i1 := 2 * i
		i2 := n - i1
		a, b, c, d := data[i1], data[i2], data[i1+1], data[i2+1]

		evenRe := (a + b) / 2
		oddIm := (a - b) / 2
		evenIm := (c - d) / 2
		oddRe := -(c + d) / 2

		sinI, cosI := math.Sincos(float64(i) * theta)

		data[i1] = evenRe + oddRe*cosI - oddIm*sinI
		data[i1+1] = evenIm + oddIm*cosI + oddRe*sinI
		data[i2] = evenRe - oddRe*cosI + oddIm*sinI
		data[i2+1] = -evenIm + oddIm*cosI + oddRe*sinI
	}

	half := n / 2
	complexIn := make([]complex128, half)
	for k := range complexIn {
		complexIn[k] = complex(data[2*k], data[2*k+1])
	}
	out := fft.FFT(complexIn)
	for k, v := range out {
		data[2*k] = real(v)
		data[2*k+1] = imag(v)
	}
}

