// Package sixel encodes raster images into DECSIXEL terminal graphics
// sequences: adaptive palette construction over a YUV histogram, median-cut
// quantization, serpentine Floyd-Steinberg error diffusion, and a row-band
// run-length encoder. See doc.go for an overview and cmd/img2sixel for a
// ready-made CLI built on this package.
package sixel

import (
	"image"
	"io"

	"github.com/taqusixel/sixel/internal/colorspace"
	"github.com/taqusixel/sixel/internal/cutter"
	"github.com/taqusixel/sixel/internal/diffuser"
	"github.com/taqusixel/sixel/internal/histogram"
	"github.com/taqusixel/sixel/internal/palette"
	"github.com/taqusixel/sixel/internal/workspace"
)

type engineState int

const (
	stateCreated engineState = iota
	stateQuantized
)

// Engine is a handle bound to one fixed image geometry, carrying the
// reusable workspace.Workspace arena across repeated Quantize/Emit calls.
// It implements the lifecycle in spec.md §4.7: Created --quantize--> Quantized
// --emit--> Quantized, looping back to Quantized on every further quantize.
type Engine struct {
	width, height int
	opts          EncoderOptions
	ws            *workspace.Workspace
	state         engineState
}

// Create allocates an Engine for a width x height image. width and height
// must both be non-negative; a nil opts uses DefaultOptions. Width or
// height of 0 is valid and produces an empty SIXEL stream on Emit (header
// and footer only, zero-entry palette).
func Create(width, height int, opts *EncoderOptions) (*Engine, error) {
	if width < 0 || height < 0 {
		fail("Create", "width and height must be non-negative")
	}
	o := resolveOptions(opts)
	return &Engine{
		width:  width,
		height: height,
		opts:   o,
		ws:     workspace.New(width, height, o.MaxColors),
		state:  stateCreated,
	}, nil
}

// Destroy releases the engine's workspace back to the shared pool. The
// Engine must not be used again afterward. Destroy is nil-receiver safe so
// it can be deferred unconditionally even when Create failed, matching
// cixelDestroy's null-handle tolerance (cixel.h:1724-1730).
func (e *Engine) Destroy() {
	if e == nil {
		return
	}
	e.ws.Release()
}

// Quantize builds the adaptive palette for pixels and fills indicesOut with
// each pixel's palette index, matching the quantize operation in spec.md §6.
// pixels and indicesOut must each have length width*height (as passed to
// Create); pixels is packed RGBA via colorspace.NewPixel, channel order low
// to high byte. When flipVertical is true, the source image's last row is
// treated as row 0, matching original_source/cixel.h:1774-1807.
//
// When opts.ReuseWorkspace is false, Quantize releases the engine's current
// workspace.Workspace and allocates a fresh one on every call instead of
// reusing the one from Create; Workspace.Fits guards the true case too, in
// case this Engine's own geometry was ever mismatched against its workspace.
func (e *Engine) Quantize(indicesOut []uint8, pixels []colorspace.Pixel, flipVertical bool) {
	n := e.width * e.height
	if n > 0 && pixels == nil {
		fail("Quantize", "pixels must not be nil")
	}
	if len(pixels) != n {
		fail("Quantize", "pixels has the wrong length for this engine's geometry")
	}
	if len(indicesOut) != n {
		fail("Quantize", "indicesOut has the wrong length for this engine's geometry")
	}

	if !e.opts.ReuseWorkspace || !e.ws.Fits(e.width, e.height, e.opts.MaxColors) {
		e.ws.Release()
		e.ws = workspace.New(e.width, e.height, e.opts.MaxColors)
	}
	ws := e.ws
	ws.Reset()

	if n == 0 {
		e.state = stateQuantized
		return
	}

	var minY, minU, minV uint8 = 255, 255, 255
	var maxY, maxU, maxV uint8

	for i := 0; i < e.height; i++ {
		srcRow := i
		if flipVertical {
			srcRow = e.height - 1 - i
		}
		srcBase := srcRow * e.width
		dstBase := i * e.width
		for j := 0; j < e.width; j++ {
			yuv := colorspace.RGBToYUV(pixels[srcBase+j])
			ws.YUV[dstBase+j] = yuv

			y, u, v := yuv.Y(), yuv.U(), yuv.V()
			if y < minY {
				minY = y
			}
			if u < minU {
				minU = u
			}
			if v < minV {
				minV = v
			}
			if maxY < y {
				maxY = y
			}
			if maxU < u {
				maxU = u
			}
			if maxV < v {
				maxV = v
			}

			qy, qu, qv := colorspace.Quantize(y), colorspace.Quantize(u), colorspace.Quantize(v)
			ws.Histogram.Add(qy, qu, qv, y, u, v)
		}
	}
	ws.Histogram.BuildPrefixSum()

	initial := cutter.Bucket{
		Box: histogram.Box{
			Y0: uint8(colorspace.Quantize(minY)), U0: uint8(colorspace.Quantize(minU)), V0: uint8(colorspace.Quantize(minV)),
			Y1: uint8(colorspace.Quantize(maxY)), U1: uint8(colorspace.Quantize(maxU)), V1: uint8(colorspace.Quantize(maxV)),
		},
		Frequency: uint32(n),
	}
	ws.Buckets = cutter.BuildBuckets(ws.Histogram, initial, e.opts.MaxColors, ws.Buckets)
	palette.Build(ws.Histogram, ws.Buckets, ws.Palette, ws.Grid)

	diffuser.Diffuse(ws.YUV, e.width, e.height, ws.Palette, ws.Grid, ws.Errors, ws.Indices)

	copy(indicesOut, ws.Indices)
	e.state = stateQuantized
}

// Emit writes the DECSIXEL byte stream for the palette and indices produced
// by the last Quantize call to w, matching the emit operation in spec.md §6.
// Calling Emit before any Quantize is a contract violation.
func (e *Engine) Emit(w io.Writer, indices []uint8) error {
	if e.state != stateQuantized {
		fail("Emit", "Quantize must be called before Emit")
	}
	out := e.ws.Output()
	out = e.ws.Encoder.Encode(out[:0], e.width, e.height, e.ws.Palette.Colors, indices)
	e.ws.SetOutput(out)
	_, err := w.Write(out)
	return err
}

// PaletteColor returns the YUV color at palette index k, matching
// cixelGetPalletColor/Sixel::operator[] (original_source/cixel.h:1979).
// Calling it before any Quantize is a contract violation.
func (e *Engine) PaletteColor(k int) colorspace.YUV {
	if e.state != stateQuantized {
		fail("PaletteColor", "Quantize must be called before PaletteColor")
	}
	return e.ws.Palette.Colors[k]
}

// PaletteSize returns the number of colors the last Quantize produced.
func (e *Engine) PaletteSize() int {
	if e.state != stateQuantized {
		fail("PaletteSize", "Quantize must be called before PaletteSize")
	}
	return len(e.ws.Palette.Colors)
}

// Encode is the single-shot convenience wrapper named in SPEC_FULL.md §5's
// supplemented features: it runs Create, Quantize and Emit over one
// image.Image and writes the DECSIXEL bytes to w, for callers who don't
// need to manage an Engine handle across multiple images. Grounded on
// webp.Encode's equivalent top-level convenience function in the teacher.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	o := resolveOptions(opts)
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	e, err := Create(width, height, &o)
	if err != nil {
		return err
	}
	defer e.Destroy()

	pixels := make([]colorspace.Pixel, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*width+x] = colorspace.NewPixel(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
		}
	}

	indices := make([]uint8, width*height)
	e.Quantize(indices, pixels, o.FlipVertical)
	return e.Emit(w, indices)
}
