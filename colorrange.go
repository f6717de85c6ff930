package flif

// ColorRanges gives, for each plane, the set of values a pixel may legally
// take -- either unconditionally (Min/Max) or conditioned on the values
// already decoded for lower-numbered planes at the same pixel (MinMax). A
// fresh Image starts with a StaticColorRanges built from its bit depth;
// every Transform that loads during header parsing can narrow those ranges
// further (ports of original_source/src/transform/{bounds,palette,
// palette_C,framecombine}.hpp each install a more specific implementation).
type ColorRanges interface {
	NumPlanes() int
	Min(plane int) int32
	Max(plane int) int32
	// MinMax narrows [min,max] for plane given the values already decoded
	// for planes 0..plane-1 at the current pixel, supplied in prior.
	MinMax(plane int, prior []int32) (min, max int32)
	// IsStatic reports whether MinMax ignores prior entirely, letting
	// callers skip passing prior values in the common case.
	IsStatic() bool
}

// StaticColorRanges is the base ColorRanges implementation: every plane has
// a fixed [Min,Max] independent of any other plane's value, derived directly
// from the per-plane bit depths read from the container header.
type StaticColorRanges struct {
	Mins []int32
	Maxs []int32
}

// NewStaticColorRanges builds ranges [0, 2^depth-1] for each entry in
// depths, following the format's per-plane bit-depth header fields.
func NewStaticColorRanges(depths []int) *StaticColorRanges {
	mins := make([]int32, len(depths))
	maxs := make([]int32, len(depths))
	for i, d := range depths {
		maxs[i] = int32(1<<uint(d)) - 1
	}
	return &StaticColorRanges{Mins: mins, Maxs: maxs}
}

func (s *StaticColorRanges) NumPlanes() int { return len(s.Mins) }

func (s *StaticColorRanges) Min(plane int) int32 { return s.Mins[plane] }

func (s *StaticColorRanges) Max(plane int) int32 { return s.Maxs[plane] }

func (s *StaticColorRanges) MinMax(plane int, prior []int32) (int32, int32) {
	return s.Mins[plane], s.Maxs[plane]
}

func (s *StaticColorRanges) IsStatic() bool { return true }

// DependentColorRanges wraps a source ColorRanges and overrides MinMax for
// one or more planes with a caller-supplied function of the prior plane
// values. The transforms in package transform do not use it: each one's
// Meta() returns its own ColorRanges type of the same wrap-and-override
// shape (e.g. Bounds clamping plane 0 and 3 directly while deferring the
// rest to the source).
type DependentColorRanges struct {
	Src     ColorRanges
	Overlay func(plane int, prior []int32) (min, max int32, handled bool)
}

func (d *DependentColorRanges) NumPlanes() int { return d.Src.NumPlanes() }

func (d *DependentColorRanges) Min(plane int) int32 {
	min, _, ok := d.Overlay(plane, nil)
	if ok {
		return min
	}
	return d.Src.Min(plane)
}

func (d *DependentColorRanges) Max(plane int) int32 {
	_, max, ok := d.Overlay(plane, nil)
	if ok {
		return max
	}
	return d.Src.Max(plane)
}

func (d *DependentColorRanges) MinMax(plane int, prior []int32) (int32, int32) {
	if min, max, ok := d.Overlay(plane, prior); ok {
		return min, max
	}
	return d.Src.MinMax(plane, prior)
}

func (d *DependentColorRanges) IsStatic() bool { return false }
