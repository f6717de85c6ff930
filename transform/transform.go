// Package transform implements FLIF's reversible pre-processing stack:
// Bounds, Palette, Palette-Channel, and Frame-Combine. Each one reads its
// own parameters from the bitstream during header parsing (Load), narrows
// the working ColorRanges for the planes downstream of it (Meta), and later
// undoes itself against the fully decoded pixel data (InvData).
package transform

import (
	"github.com/flif-go/flif/rac"
)

// Image is the minimal pixel-grid contract a Transform needs, satisfied by
// *flif.Image. Kept narrow here so this package does not import flif
// (which imports transform for its Registry), avoiding an import cycle.
type Image interface {
	NumPlanes() int
	NumRows() int
	NumCols() int
	Get(p, row, col int) int32
	Set(p, row, col int, v int32)
	SetConstantPlane(p int, v int32)
	IsConstantPlane(p int) bool
	ExpandConstantPlane(p int)
	EnsureFrameLookback()
	TruncatePlanes(n int)
}

// ColorRanges mirrors flif.ColorRanges; see that type for documentation.
type ColorRanges interface {
	NumPlanes() int
	Min(plane int) int32
	Max(plane int) int32
	MinMax(plane int, prior []int32) (min, max int32)
	IsStatic() bool
}

// Transform is one reversible step of the pre-processing stack applied
// before pixel data is coded. Transforms are applied in header order during
// decode and undone in reverse order once all pixel data has been read.
type Transform interface {
	// Name is the registered name this transform was loaded under.
	Name() string

	// Load reads this transform's parameters from the bitstream, given the
	// ColorRanges of the planes as they stand before this transform is
	// applied. It reports false if the parameters are structurally invalid.
	Load(dec *rac.Dec, srcRanges ColorRanges) bool

	// Meta returns the ColorRanges downstream planes should see after this
	// transform, built from srcRanges and whatever Load read.
	Meta(srcRanges ColorRanges) ColorRanges

	// InvData undoes the transform against fully decoded image data.
	InvData(images []Image)

	// UndoRedoDuringDecode reports whether this transform must be undone
	// incrementally while pixels are still being decoded (Frame-Combine)
	// rather than only once at the very end.
	UndoRedoDuringDecode() bool

	// Configure passes an out-of-band integer the container header reads
	// specially for certain transforms (e.g. Frame-Combine's frame count,
	// Duplicate-Frame's frame count) -- a no-op for transforms that don't
	// need one.
	Configure(value int)
}

// MaxTransform is the highest transform name index this package assigns,
// matching the reference's MAX_TRANSFORM.
const MaxTransform = 9

// Factory constructs a fresh, unconfigured instance of a registered
// transform.
type Factory func() Transform

// Registry maps transform name indices, as they appear in the bitstream, to
// factories. Name indices must appear in strictly increasing order within a
// single file's transform list -- enforced by the caller (the header
// parser), not by Registry itself.
type Registry struct {
	byIndex map[int]Factory
	names   map[int]string
}

// NewRegistry returns a Registry with Bounds, Palette, Palette-Channel, and
// Frame-Combine registered at the name indices the reference implementation
// assigns them. YCoCg, Channel-Compact, Permute-Planes, Duplicate-Frame, and
// Frame-Shape are intentionally left unregistered.
func NewRegistry() *Registry {
	r := &Registry{byIndex: map[int]Factory{}, names: map[int]string{}}
	r.register(0, "Bounds", func() Transform { return NewBounds() })
	r.register(4, "Palette_Alpha", func() Transform { return NewPalette(true) })
	r.register(5, "Palette", func() Transform { return NewPalette(false) })
	r.register(6, "Palette_C", func() Transform { return NewPaletteChannel() })
	r.register(7, "Frame_Combine", func() Transform { return NewFrameCombine() })
	return r
}

func (r *Registry) register(index int, name string, f Factory) {
	r.byIndex[index] = f
	r.names[index] = name
}

// ByIndex returns a new Transform instance for the given bitstream name
// index, or an error if the index is out of range or names a transform this
// package does not implement.
func (r *Registry) ByIndex(index int) (Transform, error) {
	if index < 0 || index > MaxTransform {
		return nil, errTransformRange(index)
	}
	f, ok := r.byIndex[index]
	if !ok {
		return nil, errTransformUnregistered(index)
	}
	return f(), nil
}

// Name returns the registered name for a bitstream name index, or "" if
// none is registered there.
func (r *Registry) Name(index int) string { return r.names[index] }
