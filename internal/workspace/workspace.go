// Package workspace holds every reusable buffer one encode pass needs:
// the YUV staging plane, the histogram, the median-cut bucket list, the
// resolved palette and its lookup grid, the diffusion error accumulator,
// the index plane, and the output byte buffer.
//
// cixel.h carves all of this out of a single arena allocation sized once
// in cixelCreate (cixel.h:1655-1722) and addressed by raw pointer
// arithmetic into three temporally disjoint regions: quantization scratch,
// diffusion scratch, and the output write buffer. Go has no equivalent of
// that pointer carve-up, so Workspace instead holds one separately
// allocated, typed slice per region and hands them to internal/histogram,
// internal/cutter, internal/palette, internal/diffuser and
// internal/encoder directly — allocated once per image size and reused
// across repeated encodes, same as the arena was reused across repeated
// cixelQuantize/cixelPrint calls on the same cixel_t handle. This is the
// one structural deviation from the source's memory layout.
package workspace

import (
	"fmt"

	"github.com/taqusixel/sixel/internal/colorspace"
	"github.com/taqusixel/sixel/internal/cutter"
	"github.com/taqusixel/sixel/internal/diffuser"
	"github.com/taqusixel/sixel/internal/encoder"
	"github.com/taqusixel/sixel/internal/histogram"
	"github.com/taqusixel/sixel/internal/palette"
	"github.com/taqusixel/sixel/internal/pool"
)

// Workspace bundles the buffers one Quantize+Emit pass over a fixed
// width x height x maxColors image needs. A Workspace is sized for one
// image geometry; call Fits before reusing it for a different one.
type Workspace struct {
	Width, Height, MaxColors int

	YUV       []colorspace.YUV
	Histogram *histogram.Histogram
	Buckets   []cutter.Bucket
	Palette   *palette.Palette
	Grid      *palette.Grid
	Errors    *diffuser.Errors
	Indices   []uint8
	Encoder   *encoder.Encoder

	out []byte
}

// New allocates a Workspace sized for a width x height image whose
// palette will hold at most maxColors entries.
func New(width, height, maxColors int) *Workspace {
	return &Workspace{
		Width:     width,
		Height:    height,
		MaxColors: maxColors,

		YUV:       make([]colorspace.YUV, width*height),
		Histogram: histogram.New(),
		Buckets:   make([]cutter.Bucket, 0, maxColors),
		Palette:   palette.NewPalette(),
		Grid:      palette.NewGrid(),
		Errors:    diffuser.NewErrors(width, height),
		Indices:   make([]uint8, width*height),
		Encoder:   encoder.New(width),
	}
}

// Fits reports whether w can be reused as-is for the given geometry
// instead of allocating a new Workspace, the Go equivalent of the
// source's one-arena-per-cixel_t contract (cixel.h:1655-1722): a mismatch
// there is a caller error, but the ReuseWorkspace option asks us to just
// tell the caller so it can decide whether to reallocate.
func (w *Workspace) Fits(width, height, maxColors int) bool {
	return w.Width == width && w.Height == height && w.MaxColors == maxColors
}

// Reset clears every buffer so a new image can be processed, without
// releasing any of their backing storage.
func (w *Workspace) Reset() {
	w.Histogram.Reset()
	w.Buckets = w.Buckets[:0]
	w.Palette.Colors = w.Palette.Colors[:0]
	w.Grid.Reset()
	w.Errors.Reset()
}

// Output returns a zero-length byte buffer drawn from the shared
// bucketed pool (internal/pool), grown on demand as Encode appends to
// it. Call Release once the caller is done with the encoded bytes.
func (w *Workspace) Output() []byte {
	if w.out == nil {
		w.out = pool.Get(outputEstimate(w.Width, w.Height, w.MaxColors))[:0]
	}
	return w.out
}

// SetOutput records the (possibly grown, possibly reallocated by
// append) slice Encode returned, so the next Output call resumes from
// it rather than losing track of growth.
func (w *Workspace) SetOutput(b []byte) {
	w.out = b
}

// Release returns every pooled buffer the Workspace holds — the output
// byte buffer, the histogram's frequency lattice, the palette grid and the
// diffusion error planes — to the shared pool. The Workspace must not be
// used again afterward.
func (w *Workspace) Release() {
	if w.out != nil {
		pool.Put(w.out)
		w.out = nil
	}
	w.Histogram.Release()
	w.Grid.Release()
	w.Errors.Release()
}

// debugValidate checks the invariants that must hold over w.Buckets after a
// successful BuildBuckets/Build pass: every box has start<=end on each axis,
// and no two buckets' boxes claim the same lattice cell. It walks every cell
// of every box, so it is O(claimed cells) rather than O(1) like the rest of
// this package — intended for tests, not production Quantize, matching the
// source's #ifdef _DEBUG validate/overlap block (cixel.h:397-414).
func (w *Workspace) debugValidate() error {
	for i, b := range w.Buckets {
		box := b.Box
		if box.Y0 > box.Y1 || box.U0 > box.U1 || box.V0 > box.V1 {
			return fmt.Errorf("bucket %d has invalid box %+v", i, box)
		}
	}

	claimedBy := make(map[int]int)
	for i, b := range w.Buckets {
		box := b.Box
		for y := int(box.Y0); y <= int(box.Y1); y++ {
			for u := int(box.U0); u <= int(box.U1); u++ {
				for v := int(box.V0); v <= int(box.V1); v++ {
					cell := y<<colorspace.GridShiftY | u<<colorspace.GridShiftU | v
					if owner, ok := claimedBy[cell]; ok && owner != i {
						return fmt.Errorf("cell (%d,%d,%d) claimed by both bucket %d and bucket %d", y, u, v, owner, i)
					}
					claimedBy[cell] = i
				}
			}
		}
	}
	return nil
}

// outputEstimate sizes the initial pool draw: a worst case DECSIXEL
// payload is one RLE-escaped run character per pixel per color pass,
// plus the palette statements and header/footer. Appends beyond this
// still work, just with an extra realloc.
func outputEstimate(width, height, maxColors int) int {
	bandCount := (height + 5) / 6
	return 32 + maxColors*16 + bandCount*width*maxColors/4
}
