// Package diffuser implements serpentine Floyd-Steinberg error diffusion
// over the quantized palette grid: each row alternates scan direction, and
// diffused error that lands outside the grid's claimed cells falls back to
// a direct (undiffused) lookup so every pixel always resolves to a palette
// index.
package diffuser

import (
	"github.com/taqusixel/sixel/internal/colorspace"
	"github.com/taqusixel/sixel/internal/palette"
	"github.com/taqusixel/sixel/internal/pool"
)

// Diffusion weights, fixed point over a base of 16 (K12/K20/K21/K22YUV655
// in cixel.h:588-591).
const (
	weightAhead         = 7 // K12YUV655
	weightAheadOpposite = 3 // K20YUV655
	weightBelow         = 5 // K21YUV655
	weightBelowSame     = 1 // K22YUV655
)

// Errors holds the per-channel diffusion accumulator, one (width+2)x(height+1)
// plane per channel so every pixel's 4 forward neighbors (cixel.h's
// diffuseRight/Left addressing) stay in bounds without edge checks.
type Errors struct {
	width2 int
	r, g, b []int32
}

// NewErrors allocates an Errors buffer sized for a width x height image,
// drawing each channel plane from the shared pool package.
func NewErrors(width, height int) *Errors {
	n := (width + 2) * (height + 1)
	e := &Errors{
		width2: width + 2,
		r:      pool.GetInt32(n),
		g:      pool.GetInt32(n),
		b:      pool.GetInt32(n),
	}
	e.Reset()
	return e
}

// Release returns the accumulator's pooled channel planes. The Errors must
// not be used again afterward.
func (e *Errors) Release() {
	pool.PutInt32(e.r)
	pool.PutInt32(e.g)
	pool.PutInt32(e.b)
	e.r, e.g, e.b = nil, nil, nil
}

// Reset zeroes the accumulator, matching the memset at the top of
// errorDiffusion (cixel.h:1559).
func (e *Errors) Reset() {
	for i := range e.r {
		e.r[i] = 0
		e.g[i] = 0
		e.b[i] = 0
	}
}

func (e *Errors) add(i int, weight int32, dr, dg, db int32) {
	e.r[i] += weight * dr
	e.g[i] += weight * dg
	e.b[i] += weight * db
}

func clampChannel(x int32) int32 {
	if x < 0 {
		return 0
	}
	if 255 < x {
		return 255
	}
	return x
}

// resolve looks up the palette index for a diffused (ty, tu, tv) triple,
// falling back to the cell the raw (sr, sg, sb) pixel quantizes to when the
// diffused cell was never claimed by any bucket. This mirrors the
// `0 <= grid[index]` / else branch in diffuseRight/Left (cixel.h:1452-1475):
// the diffused position can drift into an uncovered lattice cell, and the
// source falls back to the undiffused pixel's own cell, which by
// construction of the median-cut grid is always claimed.
func resolve(grid *palette.Grid, ty, tu, tv, sr, sg, sb int32) (idx int16, diffused bool) {
	qy := int(ty) >> colorspace.Shift
	qu := int(tu) >> colorspace.Shift
	qv := int(tv) >> colorspace.Shift
	if idx := grid.Lookup(qy, qu, qv); idx >= 0 {
		return idx, true
	}
	qy = int(sr) >> colorspace.Shift
	qu = int(sg) >> colorspace.Shift
	qv = int(sb) >> colorspace.Shift
	return grid.Lookup(qy, qu, qv), false
}

func diffuseRight(yuv []colorspace.YUV, indices []uint8, width, y int, pal *palette.Palette, grid *palette.Grid, errs *Errors) {
	width2 := errs.width2
	index0 := y * width
	index1 := y*width2 + 1

	for j := 0; j < width; j++ {
		c := yuv[index0]
		sr, sg, sb := int32(c.Y()), int32(c.U()), int32(c.V())

		ey := errs.r[index1] + sr<<4
		eu := errs.g[index1] + sg<<4
		ev := errs.b[index1] + sb<<4
		ty := clampChannel(ey >> 4)
		tu := clampChannel(eu >> 4)
		tv := clampChannel(ev >> 4)

		idx, diffused := resolve(grid, ty, tu, tv, sr, sg, sb)
		indices[index0] = uint8(idx)

		if diffused {
			matched := pal.Colors[idx]
			dr := sr - int32(matched.Y())
			dg := sg - int32(matched.U())
			db := sb - int32(matched.V())

			errs.add(index1+1, weightAhead, dr, dg, db)
			errs.add(index1+width2-1, weightAheadOpposite, dr, dg, db)
			errs.add(index1+width2, weightBelow, dr, dg, db)
			errs.add(index1+width2+1, weightBelowSame, dr, dg, db)
		}

		index0++
		index1++
	}
}

func diffuseLeft(yuv []colorspace.YUV, indices []uint8, width, y int, pal *palette.Palette, grid *palette.Grid, errs *Errors) {
	width2 := errs.width2
	index0 := y*width + width - 1
	index1 := y*width2 + width

	for j := width; 1 <= j; j-- {
		c := yuv[index0]
		sr, sg, sb := int32(c.Y()), int32(c.U()), int32(c.V())

		ey := errs.r[index1] + sr<<4
		eu := errs.g[index1] + sg<<4
		ev := errs.b[index1] + sb<<4
		ty := clampChannel(ey >> 4)
		tu := clampChannel(eu >> 4)
		tv := clampChannel(ev >> 4)

		idx, diffused := resolve(grid, ty, tu, tv, sr, sg, sb)
		indices[index0] = uint8(idx)

		if diffused {
			matched := pal.Colors[idx]
			dr := sr - int32(matched.Y())
			dg := sg - int32(matched.U())
			db := sb - int32(matched.V())

			errs.add(index1-1, weightAhead, dr, dg, db)
			errs.add(index1+width2-1, weightBelowSame, dr, dg, db)
			errs.add(index1+width2, weightBelow, dr, dg, db)
			errs.add(index1+width2+1, weightAheadOpposite, dr, dg, db)
		}

		index0--
		index1--
	}
}

// Diffuse runs serpentine Floyd-Steinberg error diffusion over the whole
// image, alternating scan direction every row, matching errorDiffusion
// (cixel.h:1533-1569). indices must have length width*height; errs must
// have been sized for this width/height via NewErrors.
func Diffuse(yuv []colorspace.YUV, width, height int, pal *palette.Palette, grid *palette.Grid, errs *Errors, indices []uint8) {
	errs.Reset()
	for y := 0; y < height; y++ {
		if y&1 == 0 {
			diffuseRight(yuv, indices, width, y, pal, grid, errs)
		} else {
			diffuseLeft(yuv, indices, width, y, pal, grid, errs)
		}
	}
}
