package transform_test

import (
	"testing"

	"github.com/flif-go/flif/transform"
)

func TestRegistryByIndexKnownTransforms(t *testing.T) {
	r := transform.NewRegistry()
	tests := []struct {
		index int
		name  string
	}{
		{0, "Bounds"},
		{5, "Palette"},
		{6, "Palette_C"},
		{7, "Frame_Combine"},
	}
	for _, test := range tests {
		tr, err := r.ByIndex(test.index)
		if err != nil {
			t.Fatalf("ByIndex(%d): unexpected error: %v", test.index, err)
		}
		if tr.Name() != test.name {
			t.Errorf("ByIndex(%d).Name() = %q, want %q", test.index, tr.Name(), test.name)
		}
	}
}

func TestRegistryByIndexUnregistered(t *testing.T) {
	r := transform.NewRegistry()
	// Index 1 is YCoCg in the reference format, intentionally unimplemented
	// here; loading it must fail cleanly instead of desyncing the bitstream.
	if _, err := r.ByIndex(1); err == nil {
		t.Fatalf("expected error for unregistered transform index 1")
	}
}

func TestRegistryByIndexOutOfRange(t *testing.T) {
	r := transform.NewRegistry()
	if _, err := r.ByIndex(transform.MaxTransform + 1); err == nil {
		t.Fatalf("expected error for out-of-range transform index")
	}
	if _, err := r.ByIndex(-1); err == nil {
		t.Fatalf("expected error for negative transform index")
	}
}
