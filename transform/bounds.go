package transform

import "github.com/flif-go/flif/rac"

// Bounds narrows every plane's range to the tightest [min,max] actually used
// by the image, transmitted explicitly per plane. It never needs pixel data
// to undo itself: InvData is a no-op, since Bounds only affects how tightly
// other transforms' ranges (and ultimately the MANIAC coder's per-pixel
// min/max) are clamped, not the pixel values themselves.
//
// ref: original_source/src/transform/bounds.hpp
type Bounds struct {
	bounds [][2]int32
}

// NewBounds returns an unloaded Bounds transform.
func NewBounds() *Bounds { return &Bounds{} }

func (b *Bounds) Name() string { return "Bounds" }

func (b *Bounds) Load(dec *rac.Dec, src ColorRanges) bool {
	coder := rac.NewSimpleSymbolCoderBits(18)
	n := src.NumPlanes()
	b.bounds = make([][2]int32, n)
	for p := 0; p < n; p++ {
		min := int32(coder.ReadInt(dec, int64(src.Min(p)), int64(src.Max(p))))
		max := int32(coder.ReadInt(dec, int64(min), int64(src.Max(p))))
		if min > max || min < src.Min(p) || max > src.Max(p) {
			return false
		}
		b.bounds[p] = [2]int32{min, max}
	}
	return true
}

func (b *Bounds) Meta(src ColorRanges) ColorRanges {
	return &boundsRanges{bounds: b.bounds, src: src}
}

func (b *Bounds) InvData(images []Image) {}

func (b *Bounds) UndoRedoDuringDecode() bool { return false }

func (b *Bounds) Configure(value int) {}

// boundsRanges is the ColorRanges produced by Bounds.Meta: planes 0 and 3
// (Y and alpha) are clamped directly to the transmitted bounds, every other
// plane defers to the source ranges and then clamps into bounds -- matching
// ColorRangesBounds's "optimization for special case" comment in the
// reference.
type boundsRanges struct {
	bounds [][2]int32
	src    ColorRanges
}

func (r *boundsRanges) NumPlanes() int { return len(r.bounds) }

func (r *boundsRanges) Min(p int) int32 {
	if r.src.Min(p) > r.bounds[p][0] {
		return r.src.Min(p)
	}
	return r.bounds[p][0]
}

func (r *boundsRanges) Max(p int) int32 {
	if r.src.Max(p) < r.bounds[p][1] {
		return r.src.Max(p)
	}
	return r.bounds[p][1]
}

func (r *boundsRanges) MinMax(p int, prior []int32) (int32, int32) {
	if p == 0 || p == 3 {
		return r.bounds[p][0], r.bounds[p][1]
	}
	min, max := r.src.MinMax(p, prior)
	if min < r.bounds[p][0] {
		min = r.bounds[p][0]
	}
	if max > r.bounds[p][1] {
		max = r.bounds[p][1]
	}
	if min > max {
		min, max = r.bounds[p][0], r.bounds[p][1]
	}
	return min, max
}

func (r *boundsRanges) IsStatic() bool { return false }
