package workspace

import (
	"testing"

	"github.com/taqusixel/sixel/internal/cutter"
	"github.com/taqusixel/sixel/internal/histogram"
)

func TestNewSizesBuffersToGeometry(t *testing.T) {
	w := New(8, 6, 16)

	if got, want := len(w.YUV), 8*6; got != want {
		t.Errorf("len(YUV) = %d, want %d", got, want)
	}
	if got, want := len(w.Indices), 8*6; got != want {
		t.Errorf("len(Indices) = %d, want %d", got, want)
	}
	if got, want := cap(w.Buckets), 16; got != want {
		t.Errorf("cap(Buckets) = %d, want %d", got, want)
	}
}

func TestFits(t *testing.T) {
	w := New(8, 6, 16)
	if !w.Fits(8, 6, 16) {
		t.Error("Fits(8, 6, 16) = false, want true")
	}
	if w.Fits(9, 6, 16) {
		t.Error("Fits(9, 6, 16) = true, want false")
	}
	if w.Fits(8, 6, 8) {
		t.Error("Fits(8, 6, 8) = true, want false")
	}
}

func TestResetClearsBucketsAndPalette(t *testing.T) {
	w := New(4, 4, 16)
	w.Buckets = append(w.Buckets, cutter.Bucket{})
	w.Palette.Colors = append(w.Palette.Colors, 0)
	w.Grid.Lookup(0, 0, 0)

	w.Reset()

	if len(w.Buckets) != 0 {
		t.Errorf("len(Buckets) after Reset = %d, want 0", len(w.Buckets))
	}
	if len(w.Palette.Colors) != 0 {
		t.Errorf("len(Palette.Colors) after Reset = %d, want 0", len(w.Palette.Colors))
	}
}

func TestOutputReusesBufferAcrossCalls(t *testing.T) {
	w := New(4, 4, 16)
	b1 := w.Output()
	b1 = append(b1, "hello"...)
	w.SetOutput(b1)

	b2 := w.Output()
	if string(b2) != "hello" {
		t.Errorf("Output after SetOutput = %q, want %q", b2, "hello")
	}

	w.Release()
	b3 := w.Output()
	if len(b3) != 0 {
		t.Errorf("Output after Release = %d bytes, want 0 (fresh buffer)", len(b3))
	}
}

func TestDebugValidateAcceptsDisjointBoxes(t *testing.T) {
	w := New(1, 1, 16)
	w.Buckets = append(w.Buckets[:0],
		cutter.Bucket{Box: histogram.Box{Y0: 0, U0: 0, V0: 0, Y1: 15, U1: 31, V1: 31}},
		cutter.Bucket{Box: histogram.Box{Y0: 16, U0: 0, V0: 0, Y1: 31, U1: 31, V1: 31}},
	)
	if err := w.debugValidate(); err != nil {
		t.Errorf("debugValidate on disjoint boxes = %v, want nil", err)
	}
}

func TestDebugValidateRejectsInvertedBox(t *testing.T) {
	w := New(1, 1, 16)
	w.Buckets = append(w.Buckets[:0], cutter.Bucket{Box: histogram.Box{Y0: 20, U0: 0, V0: 0, Y1: 10, U1: 31, V1: 31}})
	if err := w.debugValidate(); err == nil {
		t.Error("debugValidate on an inverted box returned nil, want an error")
	}
}

func TestDebugValidateRejectsOverlappingBoxes(t *testing.T) {
	w := New(1, 1, 16)
	w.Buckets = append(w.Buckets[:0],
		cutter.Bucket{Box: histogram.Box{Y0: 0, U0: 0, V0: 0, Y1: 15, U1: 31, V1: 31}},
		cutter.Bucket{Box: histogram.Box{Y0: 10, U0: 0, V0: 0, Y1: 31, U1: 31, V1: 31}},
	)
	if err := w.debugValidate(); err == nil {
		t.Error("debugValidate on overlapping boxes returned nil, want an error")
	}
}
