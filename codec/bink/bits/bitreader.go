/*
NAME
  bitreader.go

DESCRIPTION
  bitreader.go provides a least-significant-bit-first bit reader over a fixed
  byte buffer, as required by the Bink 1 bitstream: bit i of byte k precedes
  bit i+1 of byte k, and bit 7 of byte k precedes bit 0 of byte k+1.

AUTHOR
  AusOcean av contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a least-significant-bit-first bit reader for the
// bink codec's bitstream, analogous in role to codec/h264/h264dec/bits but
// with the opposite bit order required by Bink 1.
package bits

// Reader reads bits LSB-first from a fixed byte buffer. Reads past the end
// of the buffer yield zero bits rather than an error; callers are expected
// to validate their bit budget via BitsLeft.
type Reader struct {
	data []byte
	pos  int // absolute bit position from the start of data.
}

// NewReader returns a Reader bound to buf, positioned at bit 0.
func NewReader(buf []byte) *Reader {
	return &Reader{data: buf}
}

// Len returns the total number of bits in the bound buffer.
func (r *Reader) Len() int { return len(r.data) * 8 }

// BitsLeft returns the number of unread bits remaining in the buffer. It
// never goes negative.
func (r *Reader) BitsLeft() int {
	left := r.Len() - r.pos
	if left < 0 {
		return 0
	}
	return left
}

// bitAt returns the bit at absolute position p, or 0 if p is out of range.
func (r *Reader) bitAt(p int) uint32 {
	byteIdx := p >> 3
	if byteIdx < 0 || byteIdx >= len(r.data) {
		return 0
	}
	return uint32(r.data[byteIdx]>>uint(p&7)) & 1
}

// PeekBits returns the next n bits (0 <= n <= 32) as an unsigned integer
// without advancing the reader. Bits are assembled LSB-first: the first bit
// read becomes the least-significant bit of the result.
func (r *Reader) PeekBits(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v |= r.bitAt(r.pos+i) << uint(i)
	}
	return v
}

// ReadBits reads and consumes the next n bits (0 <= n <= 32).
func (r *Reader) ReadBits(n int) uint32 {
	v := r.PeekBits(n)
	r.pos += n
	return v
}

// ReadBit reads and consumes a single bit.
func (r *Reader) ReadBit() uint32 {
	return r.ReadBits(1)
}

// Skip advances the reader by n bits without returning a value.
func (r *Reader) Skip(n int) {
	r.pos += n
}

// Align32 advances the reader to the next 32-bit boundary (a no-op if
// already aligned).
func (r *Reader) Align32() {
	r.pos = (r.pos + 31) &^ 31
}

// ApplySign reads one bit; if set, it returns -v, otherwise v.
func (r *Reader) ApplySign(v int32) int32 {
	if r.ReadBit() != 0 {
		return -v
	}
	return v
}

// Pos returns the current absolute bit position, chiefly for tests.
func (r *Reader) Pos() int { return r.pos }
