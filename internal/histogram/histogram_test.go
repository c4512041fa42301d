package histogram

import (
	"testing"

	"github.com/taqusixel/sixel/internal/colorspace"
)

func TestQueryWholeLattice(t *testing.T) {
	h := New()
	const n = 1000
	for i := 0; i < n; i++ {
		h.Add(5, 10, 15, 40, 80, 120)
	}
	h.BuildPrefixSum()

	box := Box{0, 0, 0, colorspace.Resolution - 1, colorspace.Resolution - 1, colorspace.Resolution - 1}
	count, sum := h.Query(box)
	if count != n {
		t.Fatalf("count = %d, want %d", count, n)
	}
	if sum.R != n*40 || sum.G != n*80 || sum.B != n*120 {
		t.Errorf("sum = %+v, want R=%d G=%d B=%d", sum, n*40, n*80, n*120)
	}
}

func TestQuerySubBoxExcludesOutsideCells(t *testing.T) {
	h := New()
	h.Add(0, 0, 0, 1, 2, 3)
	h.Add(31, 31, 31, 200, 201, 202)
	h.BuildPrefixSum()

	inBox := Box{0, 0, 0, 0, 0, 0}
	count, sum := h.Query(inBox)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if sum.R != 1 || sum.G != 2 || sum.B != 3 {
		t.Errorf("sum = %+v, want 1/2/3", sum)
	}

	otherBox := Box{31, 31, 31, 31, 31, 31}
	count2, sum2 := h.Query(otherBox)
	if count2 != 1 {
		t.Fatalf("count2 = %d, want 1", count2)
	}
	if sum2.R != 200 || sum2.G != 201 || sum2.B != 202 {
		t.Errorf("sum2 = %+v, want 200/201/202", sum2)
	}
}

func TestResetClearsLattice(t *testing.T) {
	h := New()
	h.Add(4, 4, 4, 10, 10, 10)
	h.BuildPrefixSum()
	h.Reset()

	box := Box{0, 0, 0, colorspace.Resolution - 1, colorspace.Resolution - 1, colorspace.Resolution - 1}
	count, _ := h.Query(box)
	if count != 0 {
		t.Errorf("count after Reset = %d, want 0", count)
	}
}

func TestCountMatchesQuery(t *testing.T) {
	h := New()
	h.Add(2, 2, 2, 1, 1, 1)
	h.Add(2, 2, 2, 1, 1, 1)
	h.BuildPrefixSum()

	box := Box{2, 2, 2, 2, 2, 2}
	if c := h.Count(box); c != 2 {
		t.Errorf("Count = %d, want 2", c)
	}
	count, _ := h.Query(box)
	if count != 2 {
		t.Errorf("Query count = %d, want 2", count)
	}
}
