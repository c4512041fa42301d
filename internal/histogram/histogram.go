// Package histogram accumulates a 3D YUV frequency/color-sum lattice and
// turns it, via an in-place prefix sum, into an O(1) box-query structure.
// This is the "build once, query many times" sufficient statistic the
// median-cut splitter runs against instead of re-scanning pixels.
package histogram

import (
	"github.com/taqusixel/sixel/internal/colorspace"
	"github.com/taqusixel/sixel/internal/pool"
)

// Box is an axis-aligned range in quantized YUV lattice coordinates
// [0, colorspace.Resolution-1] on every axis, inclusive on both ends.
// It mirrors cixel.h's BoxU8 (start_/end_ PointU8 pair).
type Box struct {
	Y0, U0, V0 uint8
	Y1, U1, V1 uint8
}

// Sum is an accumulated (possibly very large) channel total over some set
// of pixels, matching cixel.h's Color32 used as an accumulator.
type Sum struct {
	R, G, B uint32
}

// Add accumulates s1 into s.
func (s *Sum) Add(s1 Sum) {
	s.R += s1.R
	s.G += s1.G
	s.B += s1.B
}

// Sub subtracts s1 from s.
func (s *Sum) Sub(s1 Sum) {
	s.R -= s1.R
	s.G -= s1.G
	s.B -= s1.B
}

// Histogram is the padded (Resolution+1)^3 frequency and channel-sum
// lattice described in spec.md §4.2. Frequencies and Sums are reused across
// Reset calls so a Histogram allocated once can serve every Quantize call an
// engine makes for its fixed image dimensions.
type Histogram struct {
	frequencies []uint32
	sums        []Sum
}

// New allocates a Histogram with its backing lattices sized once. The
// frequency lattice is drawn from the shared pool package, since it is a
// plain numeric slice; sums holds a struct element type the pool has no
// bucket for, so it is allocated directly.
func New() *Histogram {
	h := &Histogram{
		frequencies: pool.GetUint32(colorspace.FreqSize),
		sums:        make([]Sum, colorspace.FreqSize),
	}
	h.Reset()
	return h
}

// Release returns the histogram's pooled frequency lattice. The Histogram
// must not be used again afterward.
func (h *Histogram) Release() {
	pool.PutUint32(h.frequencies)
	h.frequencies = nil
}

// Reset zeroes the lattice so the Histogram can be reused for a new image
// of the same dimensions without reallocating.
func (h *Histogram) Reset() {
	for i := range h.frequencies {
		h.frequencies[i] = 0
	}
	for i := range h.sums {
		h.sums[i] = Sum{}
	}
}

// index folds a quantized (y, u, v) cell, already offset into the padded
// lattice, into a flat slice index (cixel.h:951, "row1+col1+dep1" etc).
func index(y, u, v int) int {
	return y*colorspace.UVPlaneSize + u*colorspace.VSize + v
}

// Add records one pixel at its quantized (qy, qu, qv) cell with its
// original 8-bit channel values, matching cixelQuantize's per-pixel
// accumulation (cixel.h:1783-1791). Callers pass raw cell indices; Add
// itself applies the +1 per-axis offset into the padded lattice.
func (h *Histogram) Add(qy, qu, qv int, y, u, v uint8) {
	idx := index(qy+1, qu+1, qv+1)
	h.frequencies[idx]++
	h.sums[idx].R += uint32(y)
	h.sums[idx].G += uint32(u)
	h.sums[idx].B += uint32(v)
}

// BuildPrefixSum turns the raw per-cell lattice into a 3D summed-area table
// in place, matching calcPrefixSum (cixel.h:936-981) exactly, including its
// inclusion-exclusion term order.
func (h *Histogram) BuildPrefixSum() {
	row0 := 0
	for i := 1; i <= colorspace.Resolution; i++ {
		row1 := row0 + colorspace.UVPlaneSize
		col0 := 0
		for j := 1; j <= colorspace.Resolution; j++ {
			col1 := col0 + colorspace.VSize
			dep0 := 0
			for k := 1; k <= colorspace.Resolution; k++ {
				dep1 := k

				idx := row1 + col1 + dep1

				h.frequencies[idx] += h.frequencies[row0+col0+dep0]
				h.frequencies[idx] += h.frequencies[row0+col1+dep1]
				h.frequencies[idx] += h.frequencies[row1+col0+dep1]
				h.frequencies[idx] += h.frequencies[row1+col1+dep0]

				h.frequencies[idx] -= h.frequencies[row0+col0+dep1]
				h.frequencies[idx] -= h.frequencies[row0+col1+dep0]
				h.frequencies[idx] -= h.frequencies[row1+col0+dep0]

				h.sums[idx].Add(h.sums[row0+col0+dep0])
				h.sums[idx].Add(h.sums[row0+col1+dep1])
				h.sums[idx].Add(h.sums[row1+col0+dep1])
				h.sums[idx].Add(h.sums[row1+col1+dep0])

				h.sums[idx].Sub(h.sums[row0+col0+dep1])
				h.sums[idx].Sub(h.sums[row0+col1+dep0])
				h.sums[idx].Sub(h.sums[row1+col0+dep0])

				dep0 = dep1
			}
			col0 = col1
		}
		row0 = row1
	}
}

// corners returns the 8 inclusion-exclusion lattice indices for box, with
// the same sign pattern getSum/getSumRGB use (cixel.h:982-1046).
func corners(box Box) (add [4]int, sub [4]int) {
	r0 := int(box.Y0) * colorspace.UVPlaneSize
	r1 := (int(box.Y1) + 1) * colorspace.UVPlaneSize

	g0 := int(box.U0) * colorspace.VSize
	g1 := (int(box.U1) + 1) * colorspace.VSize

	b0 := int(box.V0)
	b1 := int(box.V1) + 1

	add = [4]int{r1 + g1 + b1, r0 + g0 + b1, r0 + g1 + b0, r1 + g0 + b0}
	sub = [4]int{r0 + g1 + b1, r1 + g0 + b1, r1 + g1 + b0, r0 + g0 + b0}
	return add, sub
}

// Count returns the pixel count within box in O(1), matching getSum
// (cixel.h:982-1008).
func (h *Histogram) Count(box Box) uint32 {
	add, sub := corners(box)
	c := h.frequencies[add[0]] + h.frequencies[add[1]] + h.frequencies[add[2]] + h.frequencies[add[3]]
	c -= h.frequencies[sub[0]] + h.frequencies[sub[1]] + h.frequencies[sub[2]] + h.frequencies[sub[3]]
	return c
}

// Query returns both the pixel count and accumulated channel sums within
// box in O(1), matching getSumRGB (cixel.h:1010-1046).
func (h *Histogram) Query(box Box) (count uint32, sum Sum) {
	add, sub := corners(box)
	count = h.frequencies[add[0]] + h.frequencies[add[1]] + h.frequencies[add[2]] + h.frequencies[add[3]]
	count -= h.frequencies[sub[0]] + h.frequencies[sub[1]] + h.frequencies[sub[2]] + h.frequencies[sub[3]]

	sum = h.sums[add[0]]
	sum.Add(h.sums[add[1]])
	sum.Add(h.sums[add[2]])
	sum.Add(h.sums[add[3]])
	sum.Sub(h.sums[sub[0]])
	sum.Sub(h.sums[sub[1]])
	sum.Sub(h.sums[sub[2]])
	sum.Sub(h.sums[sub[3]])
	return count, sum
}
