package transform

import "github.com/flif-go/flif/rac"

// FrameCombine ("FRA" in the reference) lets an animation frame reuse an
// earlier frame's pixel as-is via a per-pixel lookback index (plane 4),
// instead of re-coding a pixel that hasn't actually changed. Unlike the
// other transforms, it must be undone incrementally while decoding is still
// in progress (UndoRedoDuringDecode reports true): the scanline decode loop
// itself copies a pixel from the earlier frame named by its lookback plane
// value before moving on (the interlaced loop does not) -- this type only
// carries the transmitted parameter and the bookkeeping that must happen
// once, at Meta/InvData time.
//
// ref: original_source/src/transform/framecombine.hpp
type FrameCombine struct {
	nbFrames     int
	maxLookback  int
	wasFlat      bool
	wasGrayscale bool
}

// NewFrameCombine returns an unloaded FrameCombine transform.
func NewFrameCombine() *FrameCombine { return &FrameCombine{} }

func (t *FrameCombine) Name() string { return "Frame_Combine" }

// Configure receives the frame count, which the container header reads and
// passes down before Load (mirroring the reference's
// "trans->configure(nb_frames)" special case for this transform name).
func (t *FrameCombine) Configure(value int) { t.nbFrames = value }

func (t *FrameCombine) Load(dec *rac.Dec, src ColorRanges) bool {
	coder := rac.NewSimpleSymbolCoderBits(18)
	t.maxLookback = int(coder.ReadInt(dec, 1, int64(t.nbFrames-1)))
	return true
}

func (t *FrameCombine) Meta(src ColorRanges) ColorRanges {
	t.wasGrayscale = src.NumPlanes() < 2
	t.wasFlat = src.NumPlanes() < 4
	lookback := t.nbFrames - 1
	if lookback > t.maxLookback {
		lookback = t.maxLookback
	}
	alphaMin, alphaMax := int32(255), int32(255)
	if src.NumPlanes() == 4 {
		alphaMin, alphaMax = src.Min(3), src.Max(3)
	}
	return &frameCombineRanges{src: src, numPrevFrames: int32(lookback), alphaMin: alphaMin, alphaMax: alphaMax}
}

func (t *FrameCombine) InvData(images []Image) {
	for _, img := range images {
		img.TruncatePlanes(4)
		if t.wasFlat {
			img.TruncatePlanes(3)
		}
		if t.wasGrayscale {
			img.TruncatePlanes(1)
		}
	}
}

func (t *FrameCombine) UndoRedoDuringDecode() bool { return true }

// frameCombineRanges always exposes exactly 5 planes: the source's color/
// alpha planes followed by the lookback plane, whose range is
// [0, numPrevFrames].
type frameCombineRanges struct {
	src                    ColorRanges
	numPrevFrames          int32
	alphaMin, alphaMax     int32
}

func (r *frameCombineRanges) NumPlanes() int { return 5 }

func (r *frameCombineRanges) Min(p int) int32 {
	switch {
	case p < 3:
		return r.src.Min(p)
	case p == 3:
		return r.alphaMin
	default:
		return 0
	}
}

func (r *frameCombineRanges) Max(p int) int32 {
	switch {
	case p < 3:
		return r.src.Max(p)
	case p == 3:
		return r.alphaMax
	default:
		return r.numPrevFrames
	}
}

func (r *frameCombineRanges) MinMax(p int, prior []int32) (int32, int32) {
	if p >= 3 {
		return r.Min(p), r.Max(p)
	}
	return r.src.MinMax(p, prior)
}

func (r *frameCombineRanges) IsStatic() bool { return false }
