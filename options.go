package sixel

import "github.com/taqusixel/sixel/internal/colorspace"

// EncoderOptions configures an Engine. The zero value is not valid on its
// own; use DefaultOptions or pass nil to Create/Encode to get it.
type EncoderOptions struct {
	// MaxColors caps the palette size produced by Quantize. Must be in
	// (0, 256]; 0 means "use the default" (256). Hard-capped at 256 per
	// spec.md §3 regardless of a larger value.
	MaxColors int

	// FlipVertical, when true, makes the package-level Encode convenience
	// wrapper present the source image bottom row first, matching
	// original_source/cixel.h:1774-1807's row-reversal semantics. Engine.Quantize
	// takes its own flip_vertical argument per call instead of reading this
	// field; it only affects Encode.
	FlipVertical bool

	// ReuseWorkspace, when true (the default), tells Quantize to keep the
	// engine's workspace.Workspace allocated across repeated Quantize calls
	// on this handle instead of releasing and reallocating it every call.
	// Set it false to have every Quantize call start from a fresh workspace,
	// trading the reuse's avoided allocations for a guarantee that no state
	// from a previous image's quantization pass lingers in pooled buffers
	// between calls.
	ReuseWorkspace bool
}

// DefaultOptions returns the EncoderOptions a bare Create(width, height, nil)
// call uses: the full 256-color palette cap, no vertical flip, workspace
// reuse enabled.
func DefaultOptions() *EncoderOptions {
	return &EncoderOptions{
		MaxColors:      colorspace.MaxColors,
		FlipVertical:   false,
		ReuseWorkspace: true,
	}
}

// resolveOptions fills in defaults for a possibly-nil or partially-zeroed
// EncoderOptions, the way the teacher's OptionsForPreset normalizes a
// caller-supplied options struct before use.
func resolveOptions(opts *EncoderOptions) EncoderOptions {
	if opts == nil {
		return *DefaultOptions()
	}
	resolved := *opts
	if resolved.MaxColors <= 0 {
		resolved.MaxColors = colorspace.MaxColors
	}
	if resolved.MaxColors > colorspace.MaxColors {
		resolved.MaxColors = colorspace.MaxColors
	}
	return resolved
}
