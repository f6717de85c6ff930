package flif

import "github.com/flif-go/flif/internal/bits"

// planeOrdering fixes the decode order of planes: alpha, Y, Co, Cg, then the
// frame-lookback plane, so alpha is known before the color planes (letting
// alpha-zero pixels skip their color) and chroma can lean on already-decoded
// luma, ported verbatim from common.hpp's PLANE_ORDERING.
var planeOrdering = [5]int{3, 0, 1, 2, 4}

// Property-vector sizes per plane, with and without an alpha plane present,
// for the scanline and interlaced decode passes respectively. Ported
// verbatim from common.hpp's NB_PROPERTIES/NB_PROPERTIESA/
// NB_PROPERTIES_scanlines/NB_PROPERTIES_scanlinesA tables.
var nbPropertiesScanlines = [5]int{8, 8, 8, 8, 2}
var nbPropertiesScanlinesAlpha = [5]int{9, 9, 9, 8, 2}
var nbProperties = [5]int{7, 8, 8, 7, 2}
var nbPropertiesAlpha = [5]int{8, 9, 9, 7, 2}

// computeGreys returns, for every plane, the midpoint of that plane's
// [min,max] range -- the neutral value predictors fall back to at the
// image's edges and for alpha-zero pixels.
func computeGreys(ranges ColorRanges) []int32 {
	greys := make([]int32, ranges.NumPlanes())
	for p := range greys {
		greys[p] = (ranges.Min(p) + ranges.Max(p)) / 2
	}
	return greys
}

// medianOf3 is the clamp-to-median building block behind predictScanlines,
// named to avoid colliding with bits.Median3's int signature.
func medianOf3(a, b, c int32) int32 {
	return int32(bits.Median3(int(a), int(b), int(c)))
}

// predictScanlines computes the MED (gradient-clamped) predictor used by
// the non-interlaced scanline decode pass and by alpha-zero fallback:
// gradient = left + top - topleft, clamped to the median of
// (gradient, left, top).
func predictScanlines(img *Image, p, r, c int, grey int32) int32 {
	var left, top, topleft int32
	if c > 0 {
		left = img.Get(p, r, c-1)
	} else if r > 0 {
		left = img.Get(p, r-1, c)
	} else {
		left = grey
	}
	if r > 0 {
		top = img.Get(p, r-1, c)
	} else {
		top = left
	}
	if r > 0 && c > 0 {
		topleft = img.Get(p, r-1, c-1)
	} else {
		topleft = top
	}
	gradient := left + top - topleft
	return medianOf3(gradient, left, top)
}

// predict computes the interlaced-pass predictor at zoomlevel z: plane 4
// (frame lookback) always predicts 0, and otherwise each missing sample is
// the average of its two already-decoded neighbors -- vertical neighbors
// when z is even (filling in horizontal lines), horizontal neighbors when z
// is odd (filling in vertical lines).
func predict(img *Image, z, p, r, c int) int32 {
	if p == 4 {
		return 0
	}
	if z%2 == 0 {
		top := img.GetZ(p, z, r-1, c)
		bottom := top
		if r+1 < img.Rows(z) {
			bottom = img.GetZ(p, z, r+1, c)
		}
		return (top + bottom) >> 1
	}
	left := img.GetZ(p, z, r, c-1)
	right := left
	if c+1 < img.Cols(z) {
		right = img.GetZ(p, z, r, c+1)
	}
	return (left + right) >> 1
}

// predictAndCalcPropsScanlines computes the scanline-pass guess for pixel
// (p,r,c) and fills props with the context vector the MANIAC tree for plane
// p will be walked with, narrowing [min,max] using ranges.MinMax along the
// way. props must already be sized to nbPropertiesScanlines[p] (or the
// alpha variant).
func predictAndCalcPropsScanlines(props []int32, ranges ColorRanges, img *Image, p, r, c int, minOut, maxOut *int32) int32 {
	min, max := ranges.MinMax(p, rowPriorPlanes(img, r, c))
	idx := 0

	left := edgeOr(img, p, r, c-1, r, c, min, max)
	top := edgeOr(img, p, r-1, c, r, c, min, max)
	topleft := cornerOr(img, p, r-1, c-1, top, min, max)
	topright := edgeIf(img, p, r-1, c+1, c+1 < img.Width, top)
	lefttop2 := edgeIf(img, p, r-2, c, r >= 2, top)
	lefttopleft2 := edgeIf(img, p, r, c-2, c >= 2, left)

	gradient := left + top - topleft
	guess := medianOf3(gradient, left, top)
	guess = bits.Clamp32(guess, min, max)

	if guess == gradient {
		props[idx] = 0
	} else if (guess == left && left > top) || (guess == top && top > left) {
		props[idx] = 1
	} else {
		props[idx] = -1
	}
	idx++

	props[idx] = left - topleft
	idx++
	props[idx] = topleft - top
	idx++
	props[idx] = top - topright
	idx++
	props[idx] = left - lefttopleft2
	idx++
	props[idx] = top - lefttop2
	idx++

	if p != 2 {
		props[idx] = 0
	} else {
		// chroma Q can lean on the already-decoded Co plane at this pixel.
		props[idx] = img.Get(1, r, c)
	}
	idx++

	if len(props) > idx+1 {
		props[idx] = 0
		idx++
	}

	*minOut, *maxOut = min, max
	return guess
}

// predictAndCalcProps computes the interlaced-pass guess and property
// vector at zoomlevel z, analogous to predictAndCalcPropsScanlines but
// reading zoomlevel-aware neighbors along the dimension z refines (top,
// bottom and top-top for even z; left, right and left-left for odd z)
// instead of the raster-order ones.
func predictAndCalcProps(props []int32, ranges ColorRanges, img *Image, z, p, r, c int, minOut, maxOut *int32) int32 {
	min, max := ranges.MinMax(p, nil)
	idx := 0

	guess := predict(img, z, p, r, c)
	guess = bits.Clamp32(guess, min, max)
	props[idx] = guess
	idx++

	if z%2 == 0 {
		top := img.GetZ(p, z, r-1, c)
		props[idx] = top
		idx++
		toptop := top
		if r >= 2 {
			toptop = img.GetZ(p, z, r-2, c)
		}
		props[idx] = toptop
		idx++
	} else {
		left := img.GetZ(p, z, r, c-1)
		props[idx] = left
		idx++
		leftleft := left
		if c >= 2 {
			leftleft = img.GetZ(p, z, r, c-2)
		}
		props[idx] = leftleft
		idx++
	}

	for idx < len(props) {
		props[idx] = 0
		idx++
	}

	*minOut, *maxOut = min, max
	return guess
}

func rowPriorPlanes(img *Image, r, c int) []int32 {
	prior := make([]int32, img.NumPlanes())
	for p := range prior {
		prior[p] = img.Get(p, r, c)
	}
	return prior
}

func edgeOr(img *Image, p, r, c, fallbackR, fallbackC int, min, max int32) int32 {
	if r >= 0 && c >= 0 {
		return img.Get(p, r, c)
	}
	return (min + max) / 2
}

func cornerOr(img *Image, p, r, c int, fallback, min, max int32) int32 {
	if r >= 0 && c >= 0 {
		return img.Get(p, r, c)
	}
	return fallback
}

func edgeIf(img *Image, p, r, c int, cond bool, fallback int32) int32 {
	if cond && r >= 0 && c >= 0 {
		return img.Get(p, r, c)
	}
	return fallback
}
