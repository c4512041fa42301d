// Package palette turns the median-cut buckets into representative YUV
// colors and a flat nearest-color lookup grid the diffuser consults on
// every pixel.
package palette

import (
	"github.com/taqusixel/sixel/internal/colorspace"
	"github.com/taqusixel/sixel/internal/cutter"
	"github.com/taqusixel/sixel/internal/histogram"
	"github.com/taqusixel/sixel/internal/pool"
)

// Grid is a flat Resolution^3 nearest-color lookup table: Lookup(y, u, v)
// returns the palette index covering that quantized cell, or -1 if no
// bucket claimed it (cixel.h's grid_, cixel_s16*, -1 sentinel).
type Grid struct {
	cells []int16
}

// NewGrid allocates a Grid with every cell unset, drawing its backing slice
// from the shared pool package.
func NewGrid() *Grid {
	g := &Grid{cells: pool.GetInt16(colorspace.GridSize)}
	g.Reset()
	return g
}

// Release returns the grid's pooled backing slice. The Grid must not be
// used again afterward.
func (g *Grid) Release() {
	pool.PutInt16(g.cells)
	g.cells = nil
}

// Reset clears every cell back to the -1 "no color" sentinel, matching the
// `memset(grid_, -1, ...)` at the top of cixelQuantize (cixel.h:1752).
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = -1
	}
}

func gridIndex(y, u, v int) int {
	return y<<colorspace.GridShiftY | u<<colorspace.GridShiftU | v
}

// Lookup returns the palette index covering quantized cell (y, u, v), or -1
// if the cell was never claimed by a bucket.
func (g *Grid) Lookup(y, u, v int) int16 {
	return g.cells[gridIndex(y, u, v)]
}

// fill claims every cell in box for colorIndex, matching add (cixel.h:1299-1315).
func (g *Grid) fill(box histogram.Box, colorIndex int16) {
	for y := int(box.Y0); y <= int(box.Y1); y++ {
		ty := y << colorspace.GridShiftY
		for u := int(box.U0); u <= int(box.U1); u++ {
			tu := ty + u<<colorspace.GridShiftU
			for v := int(box.V0); v <= int(box.V1); v++ {
				g.cells[tu+v] = colorIndex
			}
		}
	}
}

// Palette is the final ordered set of representative YUV colors, in the
// order of the bucket list handed to Build; Build does no sorting of its
// own, it walks the list front to back the way cixelQuantize walks
// `buckets[0:numBoxes]` when calling add (cixel.h:1856-1861). The list
// BuildBuckets returns is kept in descending-frequency order.
type Palette struct {
	Colors []colorspace.YUV
}

// NewPalette allocates a Palette with capacity for the hard color cap.
func NewPalette() *Palette {
	return &Palette{Colors: make([]colorspace.YUV, 0, colorspace.MaxColors)}
}

// roundedChannel implements the source's rounded-to-nearest average:
// ((sum<<1)/count + 1) >> 1, matching calcCenterColor (cixel.h:1285-1287).
func roundedChannel(sum uint32, count uint32) uint8 {
	v := ((sum << 1) / count + 1) >> 1
	if v >= 256 {
		return 255
	}
	return uint8(v)
}

// centerColor computes a box's representative color the way calcCenterColor
// does: the rounded per-channel mean of every pixel the box's histogram
// query covers. ok is false for an empty box, matching the source's
// "count <= 0" skip (cixel.h:1284-1296) — cixelQuantize silently drops such
// buckets rather than emitting an empty palette entry.
func centerColor(h *histogram.Histogram, box histogram.Box) (c colorspace.YUV, ok bool) {
	count, sum := h.Query(box)
	if count == 0 {
		return 0, false
	}
	r := roundedChannel(sum.R, count)
	g := roundedChannel(sum.G, count)
	b := roundedChannel(sum.B, count)
	return colorspace.NewYUV(r, g, b, 0xFF), true
}

// Build populates pal and grid from the resolved median-cut buckets,
// matching the add loop in cixelQuantize (cixel.h:1854-1861): for each
// bucket with a non-empty box, append its center color to the palette and
// claim its box's cells in the grid for that palette index.
func Build(h *histogram.Histogram, buckets []cutter.Bucket, pal *Palette, grid *Grid) {
	pal.Colors = pal.Colors[:0]
	grid.Reset()
	for _, bucket := range buckets {
		color, ok := centerColor(h, bucket.Box)
		if !ok {
			continue
		}
		idx := int16(len(pal.Colors))
		pal.Colors = append(pal.Colors, color)
		grid.fill(bucket.Box, idx)
	}
}
