package bits_test

import (
	"testing"

	"github.com/flif-go/flif/internal/bits"
)

func TestILog2(t *testing.T) {
	tests := []struct {
		x    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{255, 8},
		{256, 9},
		{65535, 16},
	}
	for _, test := range tests {
		got := bits.ILog2(test.x)
		if got != test.want {
			t.Errorf("ILog2(%d): got %d, want %d", test.x, got, test.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, test := range tests {
		got := bits.Clamp(test.v, test.lo, test.hi)
		if got != test.want {
			t.Errorf("Clamp(%d,%d,%d): got %d, want %d", test.v, test.lo, test.hi, got, test.want)
		}
	}
}

func TestMedian3(t *testing.T) {
	tests := []struct {
		a, b, c, want int
	}{
		{1, 2, 3, 2},
		{3, 2, 1, 2},
		{2, 2, 2, 2},
		{5, 1, 3, 3},
	}
	for _, test := range tests {
		got := bits.Median3(test.a, test.b, test.c)
		if got != test.want {
			t.Errorf("Median3(%d,%d,%d): got %d, want %d", test.a, test.b, test.c, got, test.want)
		}
	}
}
