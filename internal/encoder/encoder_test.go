package encoder

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/taqusixel/sixel/internal/colorspace"
)

func TestWriteNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{10, "10"},
		{42, "42"},
		{99, "99"},
		{100, "100"},
		{255, "255"},
		{999, "999"},
	}
	for _, tt := range tests {
		got := writeNumber(nil, tt.n)
		if string(got) != tt.want {
			t.Errorf("writeNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestWriteColorIndex(t *testing.T) {
	got := writeColorIndex(nil, 42)
	if want := "#42"; string(got) != want {
		t.Errorf("writeColorIndex(42) = %q, want %q", got, want)
	}
}

func TestWriteBitsShortRunIsLiteral(t *testing.T) {
	got := writeBits(nil, 3, 0)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, b := range got {
		if b != 63 {
			t.Errorf("byte = %d, want 63", b)
		}
	}
}

func TestWriteBitsLongRunIsCompressed(t *testing.T) {
	got := writeBits(nil, 20, 1)
	want := append([]byte{'!'}, writeNumber(nil, 20)...)
	want = append(want, 64)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("writeBits(20, 1) byte run mismatch (-want +got):\n%s", diff)
	}
}

func TestWritePaletteColor(t *testing.T) {
	got := writePaletteColor(nil, 3, 10, 20, 30)
	if want := "#3;2;10;20;30"; string(got) != want {
		t.Errorf("writePaletteColor = %q, want %q", got, want)
	}
}

func TestEncodeProducesHeaderAndFooter(t *testing.T) {
	const width, height = 2, 2
	colors := []colorspace.YUV{colorspace.NewYUV(255, 128, 128, 0xFF)}
	indices := make([]uint8, width*height)

	e := New(width)
	out := e.Encode(nil, width, height, colors, indices)

	if !bytes.HasPrefix(out, header) {
		t.Errorf("output does not start with DECSIXEL header: %q", out[:min(len(out), 16)])
	}
	if !bytes.HasSuffix(out, footer) {
		t.Errorf("output does not end with DECSIXEL footer: %q", out[max(0, len(out)-8):])
	}
	if !bytes.Contains(out, []byte("#0;2;")) {
		t.Errorf("output missing palette statement for color 0: %q", out)
	}
}

func TestEncodeScratchIsReusableAcrossCalls(t *testing.T) {
	const width, height = 3, 7
	colors := []colorspace.YUV{
		colorspace.NewYUV(255, 128, 128, 0xFF),
		colorspace.NewYUV(0, 128, 128, 0xFF),
	}
	indices := make([]uint8, width*height)
	for i := range indices {
		indices[i] = uint8(i % 2)
	}

	e := New(width)
	first := e.Encode(nil, width, height, colors, indices)
	second := e.Encode(nil, width, height, colors, indices)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Encode is not idempotent across reused scratch (-first +second):\n%s", diff)
	}
}

func TestEncodeBandsCoverPartialLastBand(t *testing.T) {
	// height not a multiple of 6 exercises the hblock < 6 clamp on the
	// final band.
	const width, height = 2, 7
	colors := []colorspace.YUV{colorspace.NewYUV(100, 128, 128, 0xFF)}
	indices := make([]uint8, width*height)

	e := New(width)
	out := e.Encode(nil, width, height, colors, indices)

	if got, want := bytesCount(out, '-'), 2; got != want {
		t.Errorf("band separator count = %d, want %d (2 bands of height 7 with band size 6)", got, want)
	}
}

func bytesCount(b []byte, c byte) int {
	n := 0
	for _, x := range b {
		if x == c {
			n++
		}
	}
	return n
}
