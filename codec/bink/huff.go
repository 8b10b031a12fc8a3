/*
NAME
  huff.go

DESCRIPTION
  huff.go implements HuffTable, the fixed 16-symbol prefix-code lookup used
  by every Bink parameter stream, and Tree, which binds a HuffTable to a
  per-plane shuffled symbol map (readTree, order mode and shuffle mode).

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

// huffSym is one entry of a HuffTable's flattened lookup table.
type huffSym struct {
	symbol uint8
	length uint8
}

// HuffTable is a lookup table for one of the sixteen hard-coded 16-symbol
// prefix codes. It is built once, at process start, from a fixed per-symbol
// code-length profile (see tables.go); the 16th length (after the lengths
// are sorted ascending, as required by the format) is the table's maximum
// code length.
type HuffTable struct {
	maxLen int
	lut    []huffSym
}

// buildHuffTable constructs canonical prefix codes from weights (a relative
// frequency for each of the 16 symbols), then flattens them into a
// maxLen-bit lookup table suitable for single-peek decoding. The codes are
// bit-reversed per-length relative to the textbook (MSB-first) canonical
// construction, because Bink's bitstream is read least-significant-bit
// first: the first bit read occupies the low bit of a peeked window.
func buildHuffTable(weights [16]int) *HuffTable {
	lengths, symOrder := huffmanLengths(weights)

	msb := canonicalCodesMSB(lengths)

	maxLen := int(lengths[15])
	size := 1 << uint(maxLen)
	lut := make([]huffSym, size)
	for i := 0; i < 16; i++ {
		l := int(lengths[i])
		if l == 0 {
			continue
		}
		code := bitReverse(msb[i], uint8(l))
		step := 1 << uint(l)
		for w := int(code); w < size; w += step {
			lut[w] = huffSym{symbol: uint8(symOrder[i]), length: uint8(l)}
		}
	}
	return &HuffTable{maxLen: maxLen, lut: lut}
}

// decode peeks maxLen bits, looks up the (symbol, length) pair, skips
// length bits, and returns symbolMap[symbol] — the Tree's permutation of
// the raw table symbol to its plane-local 4-bit value.
func (h *HuffTable) decode(r *bits.Reader, symbolMap *[16]uint8) uint8 {
	w := r.PeekBits(h.maxLen)
	e := h.lut[w]
	r.Skip(int(e.length))
	return symbolMap[e.symbol]
}

// huffmanLengths runs the standard greedy two-smallest-weight merge to
// derive a complete prefix-code length profile for 16 symbols from their
// relative weights, then returns the lengths sorted ascending together with
// the original symbol index each sorted slot came from.
func huffmanLengths(weights [16]int) (lengths [16]uint8, symOrder [16]int) {
	type node struct {
		weight   int
		depth    uint8
		children []int // original symbol indices under this node, for depth propagation
	}
	nodes := make([]*node, 16)
	for i, w := range weights {
		nodes[i] = &node{weight: w, children: []int{i}}
	}
	active := make([]*node, len(nodes))
	copy(active, nodes)

	for len(active) > 1 {
		// Find two smallest-weight nodes.
		i0, i1 := 0, 1
		if active[i1].weight < active[i0].weight {
			i0, i1 = i1, i0
		}
		for i := 2; i < len(active); i++ {
			w := active[i].weight
			if w < active[i0].weight {
				i0, i1 = i, i0
			} else if w < active[i1].weight {
				i1 = i
			}
		}
		a, b := active[i0], active[i1]
		for _, c := range a.children {
			nodes[c].depth++
		}
		for _, c := range b.children {
			nodes[c].depth++
		}
		merged := &node{weight: a.weight + b.weight, children: append(append([]int{}, a.children...), b.children...)}

		next := make([]*node, 0, len(active)-1)
		for i, n := range active {
			if i == i0 || i == i1 {
				continue
			}
			next = append(next, n)
		}
		active = append(next, merged)
	}

	type pair struct {
		sym    int
		length uint8
	}
	pairs := make([]pair, 16)
	for i, n := range nodes {
		l := n.depth
		if l == 0 {
			l = 1 // a single-symbol tree (all other weights zero) still costs one bit.
		}
		pairs[i] = pair{sym: i, length: l}
	}
	// Stable sort ascending by length, ties broken by original symbol index.
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j].length < pairs[j-1].length; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
	for i, p := range pairs {
		lengths[i] = p.length
		symOrder[i] = p.sym
	}
	return lengths, symOrder
}

// canonicalCodesMSB assigns standard canonical Huffman codes (MSB-first
// convention) to lengths, which must already be sorted ascending.
func canonicalCodesMSB(lengths [16]uint8) [16]uint16 {
	var codes [16]uint16
	var code uint16
	var prevLen uint8
	for i, l := range lengths {
		code <<= (l - prevLen)
		codes[i] = code
		code++
		prevLen = l
	}
	return codes
}

// bitReverse reverses the low l bits of v.
func bitReverse(v uint16, l uint8) uint16 {
	var r uint16
	for i := uint8(0); i < l; i++ {
		r |= ((v >> i) & 1) << (l - 1 - i)
	}
	return r
}

// Tree binds a reference HuffTable (by index 0..15 into huffTables) with a
// 16-entry permutation mapping decoded table symbols to final 4-bit values,
// as produced by readTree.
type Tree struct {
	table     *HuffTable
	symbolMap [16]uint8
}

// decode decodes one symbol using the tree's bound table and symbol map.
func (t *Tree) decode(r *bits.Reader) uint8 {
	return t.table.decode(r, &t.symbolMap)
}

// readTree implements §4.2.1: bind a reference table, then either leave the
// identity map (tableNum == 0), read an explicit order list, or apply a
// bit-driven riffle-merge shuffle.
func readTree(r *bits.Reader) *Tree {
	tableNum := r.ReadBits(4)
	t := &Tree{table: huffTables[tableNum]}

	if tableNum == 0 {
		for i := range t.symbolMap {
			t.symbolMap[i] = uint8(i)
		}
		return t
	}

	if r.ReadBit() == 0 {
		// Order mode.
		length := int(r.ReadBits(3))
		var present [16]bool
		for i := 0; i <= length; i++ {
			v := uint8(r.ReadBits(4))
			t.symbolMap[i] = v
			present[v] = true
		}
		pos := length + 1
		for v := 0; v < 16; v++ {
			if !present[v] {
				t.symbolMap[pos] = uint8(v)
				pos++
			}
		}
		return t
	}

	// Shuffle mode.
	mergeDepth := int(r.ReadBits(2))
	var work [16]uint8
	for i := range work {
		work[i] = uint8(i)
	}
	var scratch [16]uint8
	for depth := 0; depth <= mergeDepth; depth++ {
		s := 1 << uint(depth)
		for base := 0; base+2*s <= 16; base += 2 * s {
			ai, bi, oi := 0, 0, base
			for ai < s && bi < s {
				if r.ReadBit() == 0 {
					scratch[oi] = work[base+ai]
					ai++
				} else {
					scratch[oi] = work[base+s+bi]
					bi++
				}
				oi++
			}
			for ai < s {
				scratch[oi] = work[base+ai]
				ai++
				oi++
			}
			for bi < s {
				scratch[oi] = work[base+s+bi]
				bi++
				oi++
			}
		}
		work, scratch = scratch, work
	}
	copy(t.symbolMap[:], work[:])
	return t
}
