// Package cutter implements median-cut palette construction over a
// histogram's O(1) box queries: repeatedly splitting the axis-aligned box
// with the highest variance-maximizing score until MaxColors buckets exist
// or no box can be split further.
package cutter

import "github.com/taqusixel/sixel/internal/histogram"

// Bucket is one axis-aligned box candidate for the final palette, paired
// with its pixel frequency. Matches cixel.h's Bucket_t (cixel.h:896-900).
type Bucket struct {
	Box       histogram.Box
	Frequency uint32
}

// centroid returns the truncating-integer-division mean channel values of a
// box query, matching calcCentroid (cixel.h:1048-1055). Used only for split
// scoring; the final representative palette color uses a different,
// rounded formula (see internal/palette).
func centroid(count uint32, sum histogram.Sum) (r, g, b int32) {
	if count == 0 {
		return int32(sum.R), int32(sum.G), int32(sum.B)
	}
	return int32(sum.R / count), int32(sum.G / count), int32(sum.B / count)
}

// squaredDistance scores a candidate split by how far each half's centroid
// sits from the whole box's centroid, weighted by each half's share
// (count/total) of the combined pixel population (Open Question 1 in spec.md §9, resolved against the
// live, non-`#if 0` branch of cixel.h:1057-1113).
func squaredDistance(count0 uint32, r0, g0, b0 int32, count1 uint32, r1, g1, b1 int32, cr, cg, cb int32) uint32 {
	if count0 == 0 && count1 == 0 {
		return 0
	}
	total := count0 + count1

	dr0, dg0, db0 := r0-cr, g0-cg, b0-cb
	dr1, dg1, db1 := r1-cr, g1-cg, b1-cb

	d0 := uint32(dr0*dr0+dg0*dg0+db0*db0) * count0 / total
	d1 := uint32(dr1*dr1+dg1*dg1+db1*db1) * count1 / total
	return d0 + d1
}

// Split attempts one median-cut split of src, scoring all three axes and
// partitioning along the winner. It returns ok=false when the winning axis
// has zero extent (the box cannot be split further), matching medianCut's
// "bstart == bend" early-out (cixel.h:1206-1208).
//
// Scoring deliberately evaluates both candidate halves inclusive of the
// shared midpoint on the scored axis, while the actual partition below
// splits cleanly at split0/split0+1 (Open Question 2 in spec.md §9,
// resolved as bit-exact parity with cixel.h:2160-2223 rather than the
// "clean partition during scoring" alternative).
func Split(h *histogram.Histogram, src Bucket) (bucket0, bucket1 Bucket, ok bool) {
	box := src.Box

	count, sum := h.Query(box)
	cr, cg, cb := centroid(count, sum)

	midY := uint8((uint16(box.Y1) + uint16(box.Y0)) >> 1)
	midU := uint8((uint16(box.U1) + uint16(box.U0)) >> 1)
	midV := uint8((uint16(box.V1) + uint16(box.V0)) >> 1)

	var axis int
	var bestScore uint32
	var bstart, bend uint8

	{
		b0 := box
		b0.Y1 = midY
		c0, s0 := h.Query(b0)
		r0, g0, bb0 := centroid(c0, s0)

		b1 := box
		b1.Y0 = midY
		c1, s1 := h.Query(b1)
		r1, g1, bb1 := centroid(c1, s1)

		axis = 0
		bestScore = squaredDistance(c0, r0, g0, bb0, c1, r1, g1, bb1, cr, cg, cb)
		bstart, bend = box.Y0, box.Y1
	}

	{
		b0 := box
		b0.U1 = midU
		c0, s0 := h.Query(b0)
		r0, g0, bb0 := centroid(c0, s0)

		b1 := box
		b1.U0 = midU
		c1, s1 := h.Query(b1)
		r1, g1, bb1 := centroid(c1, s1)

		score := squaredDistance(c0, r0, g0, bb0, c1, r1, g1, bb1, cr, cg, cb)
		if bestScore < score {
			bestScore = score
			axis = 1
			bstart, bend = box.U0, box.U1
		}
	}

	{
		b0 := box
		b0.V1 = midV
		c0, s0 := h.Query(b0)
		r0, g0, bb0 := centroid(c0, s0)

		b1 := box
		b1.V0 = midV
		c1, s1 := h.Query(b1)
		r1, g1, bb1 := centroid(c1, s1)

		score := squaredDistance(c0, r0, g0, bb0, c1, r1, g1, bb1, cr, cg, cb)
		if bestScore < score {
			bestScore = score
			axis = 2
			bstart, bend = box.V0, box.V1
		}
	}

	if bstart == bend {
		return Bucket{}, Bucket{}, false
	}

	split0 := uint8((uint16(bstart) + uint16(bend)) >> 1)
	split1 := split0 + 1

	switch axis {
	case 0:
		bucket0.Box = histogram.Box{Y0: box.Y0, U0: box.U0, V0: box.V0, Y1: split0, U1: box.U1, V1: box.V1}
		bucket1.Box = histogram.Box{Y0: split1, U0: box.U0, V0: box.V0, Y1: box.Y1, U1: box.U1, V1: box.V1}
	case 1:
		bucket0.Box = histogram.Box{Y0: box.Y0, U0: box.U0, V0: box.V0, Y1: box.Y1, U1: split0, V1: box.V1}
		bucket1.Box = histogram.Box{Y0: box.Y0, U0: split1, V0: box.V0, Y1: box.Y1, U1: box.U1, V1: box.V1}
	case 2:
		bucket0.Box = histogram.Box{Y0: box.Y0, U0: box.U0, V0: box.V0, Y1: box.Y1, U1: box.U1, V1: split0}
		bucket1.Box = histogram.Box{Y0: box.Y0, U0: box.U0, V0: split1, Y1: box.Y1, U1: box.U1, V1: box.V1}
	}

	bucket0.Frequency = h.Count(bucket0.Box)
	bucket1.Frequency = h.Count(bucket1.Box)
	return bucket0, bucket1, true
}

// sortToUpper bubbles buckets[index] toward higher indices while a later
// entry has strictly greater frequency, preserving descending-frequency
// order. Matches sortToUpper (cixel.h:1254-1264).
func sortToUpper(buckets []Bucket, index, size int) {
	for i := index + 1; i < size; i++ {
		if buckets[i].Frequency <= buckets[i-1].Frequency {
			return
		}
		buckets[i], buckets[i-1] = buckets[i-1], buckets[i]
	}
}

// sortToLower bubbles buckets[index] toward lower indices while it has
// strictly greater frequency than its predecessor. Matches sortToLower
// (cixel.h:1266-1276).
func sortToLower(buckets []Bucket, start, index int) {
	for i := index; start < i; i-- {
		if buckets[i].Frequency <= buckets[i-1].Frequency {
			return
		}
		buckets[i], buckets[i-1] = buckets[i-1], buckets[i]
	}
}

// BuildBuckets runs the median-cut outer loop (cixel.h:1840-1852): starting
// from a single bucket covering the image's occupied lattice range, it
// repeatedly splits the lowest-index unsplit bucket (the list is kept
// sorted descending by frequency) until maxColors buckets exist or every
// remaining bucket refuses to split. dst is reused as backing storage; the
// result never holds more than maxColors buckets, so a capacity of
// maxColors avoids any reallocation.
func BuildBuckets(h *histogram.Histogram, initial Bucket, maxColors int, dst []Bucket) []Bucket {
	buckets := append(dst[:0], initial)
	candidate := 0
	numBoxes := 1
	for candidate < numBoxes && numBoxes < maxColors {
		b0, b1, ok := Split(h, buckets[candidate])
		if !ok {
			candidate++
			continue
		}
		buckets[candidate] = b0
		buckets = append(buckets, b1)
		sortToUpper(buckets, candidate, numBoxes+1)
		sortToLower(buckets, candidate, numBoxes)
		numBoxes++
	}
	return buckets
}
