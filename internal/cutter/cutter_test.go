package cutter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/taqusixel/sixel/internal/colorspace"
	"github.com/taqusixel/sixel/internal/histogram"
)

func fullBox() histogram.Box {
	return histogram.Box{
		Y0: 0, U0: 0, V0: 0,
		Y1: colorspace.Resolution - 1, U1: colorspace.Resolution - 1, V1: colorspace.Resolution - 1,
	}
}

func TestSplitRefusesSingleColor(t *testing.T) {
	h := histogram.New()
	for i := 0; i < 100; i++ {
		h.Add(5, 5, 5, 40, 40, 40)
	}
	h.BuildPrefixSum()

	_, _, ok := Split(h, Bucket{Box: histogram.Box{Y0: 5, U0: 5, V0: 5, Y1: 5, U1: 5, V1: 5}, Frequency: 100})
	if ok {
		t.Fatal("Split should refuse a box containing only one occupied cell")
	}
}

func TestSplitPartitionsTwoClusters(t *testing.T) {
	h := histogram.New()
	for i := 0; i < 50; i++ {
		h.Add(2, 2, 2, 10, 10, 10)
	}
	for i := 0; i < 50; i++ {
		h.Add(28, 28, 28, 240, 240, 240)
	}
	h.BuildPrefixSum()

	b0, b1, ok := Split(h, Bucket{Box: fullBox(), Frequency: 100})
	if !ok {
		t.Fatal("Split should succeed with two well-separated clusters")
	}
	if b0.Frequency+b1.Frequency != 100 {
		t.Errorf("split frequencies %d+%d != 100", b0.Frequency, b1.Frequency)
	}
	if b0.Frequency == 0 || b1.Frequency == 0 {
		t.Errorf("expected both halves to carry one cluster each, got %d/%d", b0.Frequency, b1.Frequency)
	}

	// The two clusters are symmetric across all three axes, so the tie
	// between axis scores resolves to axis 0 (the Y axis, evaluated first).
	wantB0 := histogram.Box{Y0: 0, U0: 0, V0: 0, Y1: 15, U1: 31, V1: 31}
	wantB1 := histogram.Box{Y0: 16, U0: 0, V0: 0, Y1: 31, U1: 31, V1: 31}
	if diff := cmp.Diff(wantB0, b0.Box); diff != "" {
		t.Errorf("b0.Box mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantB1, b1.Box); diff != "" {
		t.Errorf("b1.Box mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildBucketsStopsAtMaxColors(t *testing.T) {
	h := histogram.New()
	for y := 0; y < colorspace.Resolution; y += 4 {
		for u := 0; u < colorspace.Resolution; u += 4 {
			h.Add(y, u, 10, uint8(y*8), uint8(u*8), 80)
		}
	}
	h.BuildPrefixSum()

	initial := Bucket{Box: fullBox(), Frequency: h.Count(fullBox())}
	buckets := BuildBuckets(h, initial, 8, make([]Bucket, 0, 16))
	if len(buckets) > 8 {
		t.Fatalf("BuildBuckets produced %d buckets, want <= 8", len(buckets))
	}
	if len(buckets) < 2 {
		t.Fatalf("BuildBuckets produced %d buckets, want several for a spread-out histogram", len(buckets))
	}
}

func TestBuildBucketsSingleColorNeverSplits(t *testing.T) {
	h := histogram.New()
	for i := 0; i < 10; i++ {
		h.Add(0, 0, 0, 1, 1, 1)
	}
	h.BuildPrefixSum()

	cell := histogram.Box{}
	initial := Bucket{Box: cell, Frequency: h.Count(cell)}
	buckets := BuildBuckets(h, initial, 256, make([]Bucket, 0, 512))
	if len(buckets) != 1 {
		t.Fatalf("BuildBuckets produced %d buckets for a single occupied cell, want 1", len(buckets))
	}
}
