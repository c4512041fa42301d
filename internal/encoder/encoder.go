// Package encoder writes the DECSIXEL byte stream for a quantized,
// dithered image: the raster header, a palette of "#index;2;r;g;b" color
// introducers, and the pixel data itself as six-row bands, one run-length
// encoded pass per color per band.
package encoder

import "github.com/taqusixel/sixel/internal/colorspace"

// header and footer are the literal DECSIXEL introducer/terminator bytes,
// reproduced byte for byte from cixel.h:626-646 (ESC P 0;0;8 q "1;1 ... ESC \).
var (
	header = []byte{0x1B, 'P', '0', ';', '0', ';', '8', 'q', '"', '1', ';', '1'}
	footer = []byte{0x1B, '\\'}
)

// writeNumber appends the decimal digits of n to buf one at a time, the
// same way writeNumber (cixel.h:1571-1597) does instead of using a
// generic integer formatter. n must be in [0, 1000).
func writeNumber(buf []byte, n int) []byte {
	switch {
	case 100 <= n:
		hundreds := n / 100
		n -= 100 * hundreds
		tens := n / 10
		n -= 10 * tens
		return append(buf, byte(hundreds)+'0', byte(tens)+'0', byte(n)+'0')
	case 10 <= n:
		tens := n / 10
		n -= 10 * tens
		return append(buf, byte(tens)+'0', byte(n)+'0')
	default:
		return append(buf, byte(n)+'0')
	}
}

// writeColorIndex appends a bare "#index" color-select introducer, matching
// writeColorIndex (cixel.h:1613-1618).
func writeColorIndex(buf []byte, index int) []byte {
	buf = append(buf, '#')
	return writeNumber(buf, index)
}

// writeBits appends one run of sixel character(s): run-length encoded with
// "!count" when run exceeds 3, otherwise repeated literally. bits carries
// the 6-row coverage mask in its low 6 bits and is offset into DECSIXEL's
// printable range, matching writeBits (cixel.h:1620-1638).
func writeBits(buf []byte, run int, bits byte) []byte {
	bits += 63
	if 3 < run {
		buf = append(buf, '!')
		buf = writeNumber(buf, run)
		return append(buf, bits)
	}
	for i := 0; i < run; i++ {
		buf = append(buf, bits)
	}
	return buf
}

// writePaletteColor appends a full "#index;2;r;g;b" color-definition
// statement, matching writePalletColor (cixel.h:1640-1651).
func writePaletteColor(buf []byte, index int, r, g, b int32) []byte {
	buf = append(buf, '#')
	buf = writeNumber(buf, index)
	buf = append(buf, ';', '2', ';')
	buf = writeNumber(buf, int(r))
	buf = append(buf, ';')
	buf = writeNumber(buf, int(g))
	buf = append(buf, ';')
	buf = writeNumber(buf, int(b))
	return buf
}

// Encoder holds the per-call scratch state cixelPrint keeps in the
// engine's arena (cixel.h's indicesFlags_/colorFlags_/palletIndices_):
// a per-color, per-column coverage bitmap and a dedup scratch for which
// colors appear in the current six-row band. Sized once per image width
// and reused across repeated Encode calls on same-sized images.
type Encoder struct {
	width        int
	indicesFlags []byte
	colorFlags   [colorspace.MaxColors / 32]uint32
	bandColors   []byte
}

// New allocates an Encoder's scratch buffers for a fixed image width.
func New(width int) *Encoder {
	return &Encoder{
		width:        width,
		indicesFlags: make([]byte, width*colorspace.MaxColors),
		bandColors:   make([]byte, colorspace.MaxColors),
	}
}

// Encode appends the DECSIXEL byte stream for a width x height image to
// dst and returns the grown slice, matching cixelPrint (cixel.h:1879-1977).
// indices must have length width*height and hold valid palette indices
// into colors.
func (e *Encoder) Encode(dst []byte, width, height int, colors []colorspace.YUV, indices []uint8) []byte {
	dst = append(dst, header...)

	for i, c := range colors {
		r, g, b := colorspace.YUVToRGBPercent(c)
		dst = writePaletteColor(dst, i, r, g, b)
	}

	for i := range e.indicesFlags {
		e.indicesFlags[i] = 0
	}

	outHeight := ((height + 5) / 6) * 6
	if width == 0 {
		outHeight = 0
	}
	block := width * 6
	row := 0
	for i := 0; i < outHeight; i += 6 {
		for j := range e.colorFlags {
			e.colorFlags[j] = 0
		}

		hblock := min(6, height-i)
		colorCount := 0
		trow0 := row
		for j := 0; j < hblock; j++ {
			for k := 0; k < width; k++ {
				color := indices[trow0+k]
				flagBlock := color >> 5
				flag := uint32(1) << uint(color&31)
				if e.colorFlags[flagBlock]&flag == 0 {
					e.colorFlags[flagBlock] |= flag
					e.bandColors[colorCount] = color
					colorCount++
				}
				e.indicesFlags[width*int(color)+k] |= 1 << uint(j)
			}
			trow0 += width
		}

		for j := 0; j < colorCount; j++ {
			if 0 < j {
				dst = append(dst, '$')
			}
			color := e.bandColors[j]
			colorWidth := width * int(color)
			dst = writeColorIndex(dst, int(color))

			run := 0
			prevBits := byte(0xFF)
			for k := 0; k < width; k++ {
				bits := e.indicesFlags[colorWidth+k]
				e.indicesFlags[colorWidth+k] = 0
				if prevBits != bits && 0 < run {
					dst = writeBits(dst, run, prevBits)
					run = 0
				}
				prevBits = bits
				run++
				if 256 <= run {
					dst = writeBits(dst, 255, bits)
					run -= 255
				}
			}
			if 0 < run {
				dst = writeBits(dst, run, prevBits)
			}
		}

		dst = append(dst, '-') // graphics new line
		row += block
	}

	return append(dst, footer...)
}
