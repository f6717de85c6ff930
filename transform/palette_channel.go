package transform

import "github.com/flif-go/flif/rac"

// PaletteChannel ("Palette_C" in the reference) is a per-channel analogue
// of Palette: each plane independently gets its own small palette of the
// distinct values it actually uses, strictly increasing and delta-coded so
// a plane with only a handful of distinct shades costs very little to
// transmit. Up to 4 planes are supported (Y, I/Co, Q/Cg, alpha).
//
// ref: original_source/src/transform/palette_C.hpp
type PaletteChannel struct {
	palettes [4][]int32
}

// NewPaletteChannel returns an unloaded PaletteChannel transform.
func NewPaletteChannel() *PaletteChannel { return &PaletteChannel{} }

func (t *PaletteChannel) Name() string { return "Palette_C" }

func (t *PaletteChannel) Load(dec *rac.Dec, src ColorRanges) bool {
	coder := rac.NewSimpleSymbolCoderBits(18)
	n := src.NumPlanes()
	if n > 4 {
		n = 4
	}
	for p := 0; p < n; p++ {
		nb := coder.ReadInt(dec, 0, int64(src.Max(p)-src.Min(p))) + 1
		min := src.Min(p)
		remaining := nb - 1
		vals := make([]int32, 0, nb)
		for i := int64(0); i < nb; i++ {
			v := min + int32(coder.ReadInt(dec, 0, int64(src.Max(p))-int64(min)-remaining))
			vals = append(vals, v)
			min = v + 1
			remaining--
		}
		t.palettes[p] = vals
	}
	return true
}

func (t *PaletteChannel) Meta(src ColorRanges) ColorRanges {
	nb := [4]int32{}
	for p := 0; p < src.NumPlanes() && p < 4; p++ {
		nb[p] = int32(len(t.palettes[p])) - 1
	}
	return &paletteChannelRanges{src: src, nbColors: nb}
}

func (t *PaletteChannel) InvData(images []Image) {
	for _, img := range images {
		for p := 0; p < img.NumPlanes(); p++ {
			img.ExpandConstantPlane(p)
			table := t.palettes[p]
			for r := 0; r < img.NumRows(); r++ {
				for c := 0; c < img.NumCols(); c++ {
					img.Set(p, r, c, table[img.Get(p, r, c)])
				}
			}
		}
	}
}

func (t *PaletteChannel) UndoRedoDuringDecode() bool { return false }

func (t *PaletteChannel) Configure(value int) {}

// paletteChannelRanges is always static: once loaded, every plane's index
// range [0, nbColors[p]] is fixed regardless of any other plane's value.
type paletteChannelRanges struct {
	src      ColorRanges
	nbColors [4]int32
}

func (r *paletteChannelRanges) NumPlanes() int { return r.src.NumPlanes() }

func (r *paletteChannelRanges) Min(p int) int32 { return 0 }

func (r *paletteChannelRanges) Max(p int) int32 { return r.nbColors[p] }

func (r *paletteChannelRanges) MinMax(p int, prior []int32) (int32, int32) {
	return 0, r.nbColors[p]
}

func (r *paletteChannelRanges) IsStatic() bool { return true }
