// Package sixel turns raster images into DECSIXEL terminal graphics escape
// sequences.
//
// The pipeline in order: colors are converted to a fixed-point YUV space
// (internal/colorspace), accumulated into a 3D histogram with an O(1)
// box-query summed-area table (internal/histogram), recursively split by
// variance-maximizing median cut into at most EncoderOptions.MaxColors
// buckets (internal/cutter), resolved into representative colors and a
// nearest-color lookup grid (internal/palette), matched to pixels through
// serpentine Floyd-Steinberg error diffusion (internal/diffuser), and
// finally written out as run-length encoded SIXEL bands (internal/encoder).
// internal/workspace holds the buffers every stage reuses across repeated
// calls on one Engine.
//
// Most callers want the package-level Encode function, which runs the
// whole pipeline over a standard library image.Image. Callers encoding many
// same-sized frames, or who need direct access to the palette, should use
// Create/Quantize/Emit/Destroy directly.
package sixel
