/*
NAME
  irdft_test.go

DESCRIPTION
  irdft_test.go checks inverseRDFT's packed-complex hand-off to the
  half-size forward FFT, including the upper half of the data array that
  a too-short complex slice would leave untouched.

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
)

// TestInverseRDFTImpulseAtHalf feeds a 16-element array holding a single 1
// at index n/2 (=8), which the pre-combine loop never touches (it only
// rewrites indices 2..n/2-1 and n/2+2..n-1), and which only enters the
// complex-FFT step at k=4 of an 8-entry complexIn. With complexIn built at
// the correct length (half=8), that impulse is a delta at position 4 of an
// 8-point DFT, whose transform is the real alternating sequence (-1)^k at
// every output bin, spreading nonzero values across every even index of
// data, including the low half. A complexIn truncated to half/2=4 would
// never read index 8 at all, leaving the output identical to the input
// (the "stale pre-combine values" regression).
func TestInverseRDFTImpulseAtHalf(t *testing.T) {
	const n = 16
	data := make([]float64, n)
	data[n/2] = 1

	inverseRDFT(data, n)

	want := []float64{1, 0, -1, 0, 1, 0, -1, 0, 1, 0, -1, 0, 1, 0, -1, 0}
	for i, w := range want {
		if math.Abs(data[i]-w) > 1e-9 {
			t.Fatalf("data[%d] = %v, want %v (full trace in test doc comment)", i, data[i], w)
		}
	}
}

// buildRDFTMatrix runs inverseRDFT on each standard basis vector to recover
// the n x n linear map it implements.
func buildRDFTMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for col := 0; col < n; col++ {
		in := make([]float64, n)
		in[col] = 1
		inverseRDFT(in, n)
		for row := 0; row < n; row++ {
			m[row][col] = in[row]
		}
	}
	return m
}

// invertN returns the inverse of an n x n matrix via Gauss-Jordan
// elimination with partial pivoting.
func invertN(m [][]float64) [][]float64 {
	n := len(m)
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, 2*n)
		copy(a[i][:n], m[i])
		a[i][n+i] = 1
	}
	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[piv][col]) {
				piv = r
			}
		}
		a[col], a[piv] = a[piv], a[col]
		d := a[col][col]
		for c := 0; c < 2*n; c++ {
			a[col][c] /= d
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := a[r][col]
			for c := 0; c < 2*n; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}
	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		copy(inv[i], a[i][n:])
	}
	return inv
}

// TestInverseRDFTRoundTrip checks that the linear map inverseRDFT
// implements is invertible and that applying its numeric inverse before
// inverseRDFT recovers an arbitrary input, the same algebraic
// self-consistency strategy used for the AAN IDCT.
func TestInverseRDFTRoundTrip(t *testing.T) {
	const n = 16
	m := buildRDFTMatrix(n)
	inv := invertN(m)

	orig := []float64{1, -2, 3, -4, 0.5, 7, -1, 2, 4, -3, 6, -5, 1, 0, -2, 2}
	packed := make([]float64, n)
	for row := 0; row < n; row++ {
		var s float64
		for col := 0; col < n; col++ {
			s += inv[row][col] * orig[col]
		}
		packed[row] = s
	}

	inverseRDFT(packed, n)
	for i, want := range orig {
		if math.Abs(packed[i]-want) > 1e-6 {
			t.Fatalf("round trip mismatch at %d: got %v, want %v", i, packed[i], want)
		}
	}
}
