package flif

import "testing"

func newTestImage() *Image {
	ranges := NewStaticColorRanges([]int{8, 8, 8})
	img := NewImage(4, 4, 3, ranges)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			img.Set(0, r, c, int32(r*4+c))
		}
	}
	return img
}

func TestPredictScanlinesStaysWithinNeighborSpan(t *testing.T) {
	img := newTestImage()
	grey := int32(127)
	got := predictScanlines(img, 0, 2, 2, grey)
	left := img.Get(0, 2, 1)
	top := img.Get(0, 1, 2)
	lo, hi := left, top
	if top < left {
		lo, hi = top, left
	}
	// MED is the median of (gradient, left, top), so it always lands within
	// [min(left,top),max(left,top)]: the gradient clamped to that span. On
	// this ramp the gradient (9+6-5 = 10) lies above the span [6,9], so the
	// predictor returns left (9).
	if got < lo || got > hi {
		t.Errorf("predictScanlines = %d, outside neighbor span [%d,%d]", got, lo, hi)
	}
	want := left + top - img.Get(0, 1, 1)
	if want < lo {
		want = lo
	}
	if want > hi {
		want = hi
	}
	if got != want {
		t.Errorf("predictScanlines = %d, want clamped gradient %d", got, want)
	}
}

func TestPredictPlane4AlwaysZero(t *testing.T) {
	ranges := NewStaticColorRanges([]int{8, 8, 8, 8, 8})
	img := NewImage(4, 4, 5, ranges)
	if got := predict(img, 1, 4, 1, 1); got != 0 {
		t.Errorf("predict(plane 4) = %d, want 0", got)
	}
}

func TestComputeGreysIsMidpoint(t *testing.T) {
	ranges := NewStaticColorRanges([]int{8})
	greys := computeGreys(ranges)
	if greys[0] != 127 {
		t.Errorf("computeGreys = %d, want 127", greys[0])
	}
}
