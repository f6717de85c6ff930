package transform

import "github.com/flif-go/flif/rac"

// maxPaletteSize bounds how many distinct colors a Palette transform may
// transmit, matching the reference's MAX_PALETTE_SIZE.
const maxPaletteSize = 30000

type paletteColor struct {
	Y, I, Q int32
}

// Palette replaces planes 0-2 (Y, I/Co, Q/Cg) with a single index plane
// into a table of up to maxPaletteSize distinct colors, collapsing planes 0
// and 2 to constants. When alpha is the source of the index need (i.e. this
// instance was registered as "Palette_Alpha"), alpha itself becomes part of
// what invData restores is unaffected here -- that distinction only matters
// for which bitstream name index this transform loads under.
//
// ref: original_source/src/transform/palette.hpp
type Palette struct {
	alpha   bool
	palette []paletteColor
}

// NewPalette returns an unloaded Palette transform. alpha selects whether
// this instance was registered under the "Palette_Alpha" name (no behavioral
// difference here; both variants load/undo the same Y,I,Q table).
func NewPalette(alpha bool) *Palette { return &Palette{alpha: alpha} }

func (p *Palette) Name() string {
	if p.alpha {
		return "Palette_Alpha"
	}
	return "Palette"
}

func (p *Palette) Load(dec *rac.Dec, src ColorRanges) bool {
	coder := rac.NewSimpleSymbolCoderBits(18)
	size := coder.ReadInt(dec, 1, maxPaletteSize)
	sorted := coder.ReadInt(dec, 0, 1) == 1

	p.palette = make([]paletteColor, 0, size)
	if sorted {
		minY, maxY := src.Min(0), src.Max(0)
		minQ, maxQ := src.Min(2), src.Max(2)
		prevY, prevI := int32(-1), int32(-1)
		for i := int64(0); i < size; i++ {
			y := int32(coder.ReadInt(dec, int64(minY), int64(maxY)))
			minI, maxI := src.MinMax(1, []int32{y})
			lowI := minI
			if prevY == y {
				lowI = prevI
			}
			iv := int32(coder.ReadInt(dec, int64(lowI), int64(maxI)))
			_, _ = src.MinMax(2, []int32{y, iv})
			q := int32(coder.ReadInt(dec, int64(minQ), int64(maxQ)))
			p.palette = append(p.palette, paletteColor{Y: y, I: iv, Q: q})
			minY = y
			prevY, prevI = y, iv
		}
	} else {
		for i := int64(0); i < size; i++ {
			minY, maxY := src.MinMax(0, nil)
			y := int32(coder.ReadInt(dec, int64(minY), int64(maxY)))
			minI, maxI := src.MinMax(1, []int32{y})
			iv := int32(coder.ReadInt(dec, int64(minI), int64(maxI)))
			minQ, maxQ := src.MinMax(2, []int32{y, iv})
			q := int32(coder.ReadInt(dec, int64(minQ), int64(maxQ)))
			p.palette = append(p.palette, paletteColor{Y: y, I: iv, Q: q})
		}
	}
	return true
}

func (p *Palette) Meta(src ColorRanges) ColorRanges {
	return &paletteRanges{src: src, nbColors: int32(len(p.palette))}
}

func (p *Palette) InvData(images []Image) {
	for _, img := range images {
		img.ExpandConstantPlane(0)
		img.ExpandConstantPlane(1)
		img.ExpandConstantPlane(2)
		for r := 0; r < img.NumRows(); r++ {
			for c := 0; c < img.NumCols(); c++ {
				idx := img.Get(1, r, c)
				col := p.palette[idx]
				img.Set(0, r, c, col.Y)
				img.Set(1, r, c, col.I)
				img.Set(2, r, c, col.Q)
			}
		}
	}
}

func (p *Palette) UndoRedoDuringDecode() bool { return false }

func (p *Palette) Configure(value int) {}

// paletteRanges is the ColorRanges Palette.Meta installs: plane 1 becomes
// the index into the palette (0..nbColors-1), planes 0 and 2 collapse to a
// single value (the palette carries their real range), everything else
// passes through unchanged.
type paletteRanges struct {
	src      ColorRanges
	nbColors int32
}

func (r *paletteRanges) NumPlanes() int { return r.src.NumPlanes() }

func (r *paletteRanges) Min(p int) int32 {
	if p < 3 {
		return 0
	}
	return r.src.Min(p)
}

func (r *paletteRanges) Max(p int) int32 {
	switch p {
	case 0, 2:
		return 0
	case 1:
		return r.nbColors - 1
	default:
		return r.src.Max(p)
	}
}

func (r *paletteRanges) MinMax(p int, prior []int32) (int32, int32) {
	switch {
	case p == 1:
		return 0, r.nbColors - 1
	case p < 3:
		return 0, 0
	default:
		return r.src.MinMax(p, prior)
	}
}

func (r *paletteRanges) IsStatic() bool { return false }
