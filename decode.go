package flif

import (
	"github.com/flif-go/flif/maniac"
	"github.com/flif-go/flif/meta"
	"github.com/flif-go/flif/rac"
	"github.com/flif-go/flif/transform"
)

// DecodeOptions customizes a Decode call.
type DecodeOptions struct {
	// Quality, in [0,100], lets an interlaced decode stop early: a value
	// strictly between 0 and 100 skips the finest (100-Quality)% of the
	// zoomlevels a pass covers and fills them in by interpolation. It
	// counts zoomlevels, not subpixels. 0 and 100 both mean fully decode
	// every pixel; the scanline pass ignores Quality.
	Quality int

	// Scale, one of {0, 1, 2, 4, 8, 16, 32, 64, 128} (0 and 1 both mean
	// "full resolution, no downscaling"), lets the decoder stop at a
	// coarser zoomlevel and interpolate the rest, mirroring the
	// reference's scale-down decode mode.
	Scale int

	// Progress, if non-nil, is invoked after each plane of the scanline
	// pass (except the lookback plane) and after each zoomlevel the
	// interlaced pass decodes after the MANIAC tree read. qualityPermille is
	// always 1000; decoding continues only if the returned target is above
	// 1000. No per-pixel quality is tracked and no interpolated preview is
	// built before the call. bytesRead is the range coder's current input
	// position.
	Progress func(qualityPermille int, bytesRead int64) (nextTarget int)
}

// cutoff/alpha defaults mirror the reference flif_decode's defaults when the
// bitstream doesn't override bitchance configuration.
const (
	defaultCutoff = 2
)

// nbNoLearnZooms sets how far the interlaced rough pass (below) reaches
// before the real MANIAC tree is read: it decodes the coarsest zoomlevels,
// from zooms down to zooms-nbNoLearnZooms, and leaves the rest for the real
// tree; the constant's
// own header didn't survive distillation into original_source, so this
// follows the reference FLIF's published default.
const nbNoLearnZooms = 2

// decodeMain parses the remainder of the bitstream after the fixed header
// (loop count, per-frame delays, bitchance configuration, transform list,
// MANIAC trees, pixel data) and returns the fully decoded, detransformed
// images.
//
// ref: original_source/src/flif-dec.cpp (flif_decode_main, flif_decode)
func decodeMain(dec *rac.Dec, h *meta.FileHeader, opts DecodeOptions) ([]*Image, error) {
	metaCoder := rac.NewSimpleSymbolCoderBits(18)

	if h.NumFrames > 1 {
		metaCoder.ReadInt(dec, 0, 100) // loop count; 0 means infinite, repeats are not modeled here
	}

	baseRanges := NewStaticColorRanges(h.PlaneDepthBits)

	images := make([]*Image, h.NumFrames)
	for i := range images {
		img := NewImage(h.Width, h.Height, h.NumPlanes, baseRanges)
		img.AlphaZeroSpecial = h.AlphaZeroSpecial
		if h.NumFrames > 1 {
			img.FrameDelay = int(metaCoder.ReadInt(dec, 0, 60000))
		}
		images[i] = img
	}

	cutoff := defaultCutoff
	if metaCoder.ReadInt(dec, 0, 1) == 1 {
		cutoff = int(metaCoder.ReadInt(dec, 1, 128))
		metaCoder.ReadInt(dec, 4, 128) // adaptation-rate divisor; our bit-chance model fixes its own rate
		if metaCoder.ReadInt(dec, 0, 1) == 1 {
			return nil, errUnsupported("non-default bitchance initialization")
		}
	}
	_ = cutoff // retained for parity with the bitstream's framing; our coder doesn't take a cutoff parameter

	registry := transform.NewRegistry()
	var transforms []transform.Transform
	ranges := ColorRanges(baseRanges)
	transformLevel := 0
	for dec.ReadUniformBit() == 1 {
		if transformLevel > transform.MaxTransform {
			return nil, errCorrupt("too many transforms")
		}
		u := rac.NewUniformSymbolCoder(dec)
		nb := transformLevel + int(u.ReadInt(0, int64(transform.MaxTransform-transformLevel)))
		if nb > transform.MaxTransform {
			nb = transform.MaxTransform
		}
		transformLevel = nb + 1

		tr, err := registry.ByIndex(nb)
		if err != nil {
			return nil, err
		}
		switch tr.Name() {
		case "Frame_Combine":
			tr.Configure(len(images))
		case "Palette_Alpha":
			if images[0].AlphaZeroSpecial {
				tr.Configure(1)
			}
		}
		if !tr.Load(dec, ranges) {
			return nil, errCorrupt("transform load failed: " + tr.Name())
		}
		ranges = tr.Meta(ranges)
		transforms = append(transforms, tr)
	}

	for _, img := range images {
		img.Ranges = ranges
	}
	for p := 0; p < ranges.NumPlanes(); p++ {
		if ranges.Min(p) >= ranges.Max(p) {
			for _, img := range images {
				img.SetConstantPlane(p, ranges.Min(p))
			}
		}
	}

	forest := make([]*maniac.Tree, ranges.NumPlanes())
	var numProps [5]int
	if h.Encoding == meta.EncodingInterlaced {
		numProps = nbProperties
		if ranges.NumPlanes() > 3 {
			numProps = nbPropertiesAlpha
		}
	} else {
		numProps = nbPropertiesScanlines
		if ranges.NumPlanes() > 3 {
			numProps = nbPropertiesScanlinesAlpha
		}
	}

	var ok bool
	switch h.Encoding {
	case meta.EncodingInterlaced:
		zooms := images[0].Zooms()
		roughZL := zooms - nbNoLearnZooms - 1
		if roughZL < 0 {
			roughZL = 0
		}

		// Rough pass: every plane routes through a single-leaf tree (no
		// adaptive context yet, since the real tree hasn't been read off
		// the wire) down to roughZL+1, matching flif_decode_main's
		// pre-tree coarse preview. This call always happens, even when
		// zooms <= roughZL (so the loop inside never actually advances a
		// zoomlevel): it's also where the very first, top-left pixel of
		// every plane gets seeded, and that seed is required before any
		// real zoomlevel can be decoded at all.
		roughForest := make([]*maniac.Tree, ranges.NumPlanes())
		for p := 0; p < ranges.NumPlanes(); p++ {
			if ranges.Min(p) >= ranges.Max(p) {
				continue
			}
			roughForest[p] = maniac.NewEmptyTree()
		}
		if !decodeInterlacedPass(dec, images, ranges, roughForest, zooms, roughZL+1, DecodeOptions{}) {
			return nil, errCorrupt("truncated rough pass")
		}

		for p := 0; p < ranges.NumPlanes(); p++ {
			if ranges.Min(p) >= ranges.Max(p) {
				continue
			}
			forest[p] = maniac.Decode(dec, propertyRanges(ranges, p, numProps[p]))
		}

		ok = decodeInterlacedPass(dec, images, ranges, forest, roughZL, 0, opts)
	default:
		if opts.Quality > 0 && opts.Quality < 100 {
			Logf("flif: cannot decode a non-interlaced file at reduced quality; ignoring Quality=%d", opts.Quality)
		}
		for p := 0; p < ranges.NumPlanes(); p++ {
			if ranges.Min(p) >= ranges.Max(p) {
				continue
			}
			forest[p] = maniac.Decode(dec, propertyRanges(ranges, p, numProps[p]))
		}
		ok = decodeScanlinesPass(dec, images, ranges, forest, opts)
	}
	_ = ok // a false return means the input ran out or Progress asked to stop; pixels not yet decoded keep their current values and are not interpolated

	// UndoRedoDuringDecode only distinguishes transforms (Frame-Combine)
	// whose inverse a progressive-preview snapshot must also apply early;
	// every transform's InvData still runs here, in reverse load order, once
	// the pixel pass has produced a complete (or interpolated) image.
	for i := len(transforms) - 1; i >= 0; i-- {
		transforms[i].InvData(transformImages(images))
	}

	return images, nil
}

// propertyRanges builds [min,max] bounds for each of the numProps
// context-tree properties at plane p: the first property spans the plane's
// own color range, the rest span the full width of that range in each
// direction.
func propertyRanges(ranges ColorRanges, p, numProps int) [][2]int32 {
	min, max := ranges.Min(p), ranges.Max(p)
	span := max - min
	out := make([][2]int32, numProps)
	if numProps > 0 {
		out[0] = [2]int32{min, max}
	}
	for i := 1; i < numProps; i++ {
		out[i] = [2]int32{-span, span}
	}
	return out
}

// transformImages adapts []*Image to []transform.Image.
func transformImages(images []*Image) []transform.Image {
	out := make([]transform.Image, len(images))
	for i, img := range images {
		out[i] = img
	}
	return out
}

// decodeScanlinesPass decodes every plane in planeOrdering, one full raster
// scanline at a time, across every frame.
//
// ref: original_source/src/flif-dec.cpp (flif_decode_scanlines_inner)
func decodeScanlinesPass(dec *rac.Dec, images []*Image, ranges ColorRanges, forest []*maniac.Tree, opts DecodeOptions) bool {
	nump := ranges.NumPlanes()
	greys := computeGreys(ranges)
	alphazero := images[0].AlphaZeroSpecial
	fra := nump == 5

	for _, p := range planeOrdering {
		if p >= nump {
			continue
		}
		if ranges.Min(p) >= ranges.Max(p) {
			continue
		}
		tree := forest[p]
		numProps := nbPropertiesScanlines[p]
		if nump > 3 {
			numProps = nbPropertiesScanlinesAlpha[p]
		}
		props := make([]int32, numProps)

		for r := 0; r < images[0].Height; r++ {
			for fr, img := range images {
				if img.SeenBefore >= 0 {
					src := images[img.SeenBefore]
					for c := 0; c < img.Width; c++ {
						img.Set(p, r, c, src.Get(p, r, c))
					}
					continue
				}
				begin, end := img.ColBegin[r], img.ColEnd[r]
				if fr > 0 {
					for c := 0; c < begin; c++ {
						copyOrPredict(img, images[fr-1], p, r, c, greys[p], alphazero)
					}
				} else if nump > 3 && p < 3 {
					begin, end = 0, img.Width
				}
				for c := begin; c < end; c++ {
					if alphazero && p < 3 && img.Get(3, r, c) == 0 {
						img.Set(p, r, c, predictScanlines(img, p, r, c, greys[p]))
						continue
					}
					if fra && p < 4 {
						lookback := img.Get(4, r, c)
						if lookback > 0 {
							img.Set(p, r, c, images[fr-int(lookback)].Get(p, r, c))
							continue
						}
					}
					var min, max int32
					guess := predictAndCalcPropsScanlines(props, ranges, img, p, r, c, &min, &max)
					if fra && p == 4 {
						if max > int32(fr) {
							max = int32(fr)
						}
					}
					curr := guess + int32(tree.Walk(props).Coder.ReadInt(dec, int64(min-guess), int64(max-guess)))
					img.Set(p, r, c, curr)
				}
				if fr > 0 {
					for c := end; c < img.Width; c++ {
						copyOrPredict(img, images[fr-1], p, r, c, greys[p], alphazero)
					}
				}
			}
			if dec.AtEOF() {
				return false
			}
		}

		if opts.Progress != nil && p != 4 {
			if !reportProgress(dec, opts) {
				return false
			}
		}
	}
	return true
}

func copyOrPredict(img, prev *Image, p, r, c int, grey int32, alphazero bool) {
	if alphazero && p < 3 && img.Get(3, r, c) == 0 {
		img.Set(p, r, c, predictScanlines(img, p, r, c, grey))
		return
	}
	if p != 4 {
		img.Set(p, r, c, prev.Get(p, r, c))
	}
}

// decodeInterlacedPass decodes every plane coarse-to-fine across
// zoomlevels beginZL down to endZL (inclusive), refining one dimension per
// zoomlevel step. Quality/Scale early-exit: once opts.Quality or opts.Scale
// says this call should stop short of full resolution, the remaining
// zoomlevels are filled in by decodeInterlacedInterpolate instead of being
// read from the bitstream.
//
// ref: original_source/src/flif-dec.cpp (flif_decode_FLIF2_pass,
// flif_decode_FLIF2_inner)
func decodeInterlacedPass(dec *rac.Dec, images []*Image, ranges ColorRanges, forest []*maniac.Tree, beginZL, endZL int, opts DecodeOptions) bool {
	nump := ranges.NumPlanes()

	// The very first call for a fresh image (the rough pass, beginZL at the
	// image's coarsest zoomlevel) must seed pixel (0,0) of every plane
	// directly: the zoomlevel loop below only ever touches the "odd" half
	// of each dimension, by design assuming the other half is already
	// known, so the single top-left anchor point is never visited by it.
	if beginZL == images[0].Zooms() && endZL > 0 {
		u := rac.NewUniformSymbolCoder(dec)
		for p := 0; p < nump; p++ {
			if ranges.Min(p) >= ranges.Max(p) {
				continue
			}
			v := int32(u.ReadInt(int64(ranges.Min(p)), int64(ranges.Max(p))))
			for _, img := range images {
				img.Set(p, 0, 0, v)
			}
		}
	}

	stopZL := stopZoomlevel(images[0], opts, endZL)

	for z := beginZL; z >= endZL; z-- {
		if z < stopZL {
			decodeInterlacedInterpolate(images, ranges, z, endZL)
			continue
		}
		for _, p := range planeOrdering {
			if p >= nump || ranges.Min(p) >= ranges.Max(p) {
				continue
			}
			tree := forest[p]
			numProps := nbProperties[p]
			if nump > 3 {
				numProps = nbPropertiesAlpha[p]
			}
			props := make([]int32, numProps)

			rows, cols := images[0].Rows(z), images[0].Cols(z)
			rStart, rStep := 0, 1
			if z%2 == 0 {
				rStart, rStep = 1, 2
			}
			for r := rStart; r < rows; r += rStep {
				cStart, cStep := 0, 1
				if z%2 != 0 {
					cStart, cStep = 1, 2
				}
				for c := cStart; c < cols; c += cStep {
					for _, img := range images {
						var min, max int32
						guess := predictAndCalcProps(props, ranges, img, z, p, r, c, &min, &max)
						curr := guess + int32(tree.Walk(props).Coder.ReadInt(dec, int64(min-guess), int64(max-guess)))
						img.SetZ(p, z, r, c, curr)
					}
				}
			}
			if dec.AtEOF() {
				return false
			}
		}
		if opts.Progress != nil {
			if !reportProgress(dec, opts) {
				return false
			}
		}
	}
	return true
}

// stopZoomlevel translates DecodeOptions.Quality/Scale into the finest
// zoomlevel a pass should actually decode from the bitstream: zoomlevels
// finer than this are left for decodeInterlacedInterpolate. A Quality
// strictly between 0 and 100, or a Scale above 1, means "stop early"; the
// default (Quality==0, Scale==0) decodes every zoomlevel down to endZL.
func stopZoomlevel(img *Image, opts DecodeOptions, endZL int) int {
	stop := endZL
	if opts.Quality > 0 && opts.Quality < 100 {
		zooms := img.Zooms()
		skip := (zooms - endZL) * (100 - opts.Quality) / 100
		if stop+skip > stop {
			stop += skip
		}
	}
	if opts.Scale > 1 {
		// Scale N means "only decode down to the zoomlevel whose combined
		// row/col reduction reaches N", i.e. skip log2(N) zoomlevels.
		skip := 0
		for n := opts.Scale; n > 1; n >>= 1 {
			skip++
		}
		if stop+skip > stop {
			stop += skip
		}
	}
	return stop
}

// decodeInterlacedInterpolate fills zoomlevel z of every image with a
// prediction-only pass (no bitstream reads), used once Quality/Scale have
// stopped short of full resolution; it runs the same predictor the real
// decode loop uses, but always takes the predictor's guess verbatim instead
// of refining it with a coded residual.
//
// ref: original_source/src/flif-dec.cpp (flif_decode_FLIF2_inner_interpol)
func decodeInterlacedInterpolate(images []*Image, ranges ColorRanges, z, endZL int) {
	nump := ranges.NumPlanes()
	rows, cols := images[0].Rows(z), images[0].Cols(z)
	rStart, rStep := 0, 1
	if z%2 == 0 {
		rStart, rStep = 1, 2
	}
	cStart, cStep := 0, 1
	if z%2 != 0 {
		cStart, cStep = 1, 2
	}
	for _, p := range planeOrdering {
		if p >= nump || ranges.Min(p) >= ranges.Max(p) {
			continue
		}
		numProps := nbProperties[p]
		if nump > 3 {
			numProps = nbPropertiesAlpha[p]
		}
		props := make([]int32, numProps)
		for r := rStart; r < rows; r += rStep {
			for c := cStart; c < cols; c += cStep {
				for _, img := range images {
					var min, max int32
					guess := predictAndCalcProps(props, ranges, img, z, p, r, c, &min, &max)
					img.SetZ(p, z, r, c, guess)
				}
			}
		}
	}
}

// reportProgress invokes opts.Progress with the decoder's current input
// position, reporting full (1000 permille) progress as a milestone since
// per-pixel quality accounting isn't tracked at this granularity. It
// returns false when the caller's chosen next target has already been
// reached, matching the reference's "qual >= progressive_qual_target"
// early-exit.
func reportProgress(dec *rac.Dec, opts DecodeOptions) bool {
	const reached = 1000
	next := opts.Progress(reached, dec.BytesRead())
	return next > reached
}
