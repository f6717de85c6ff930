package maniac_test

import (
	"bytes"
	"testing"

	"github.com/flif-go/flif/maniac"
	"github.com/flif-go/flif/rac"
)

type byteReader struct{ r *bytes.Reader }

func (b byteReader) ReadByte() (byte, error) { return b.r.ReadByte() }

func TestDecodeSinglePropertyCollapsesToLeaf(t *testing.T) {
	// A single property whose range is already a single value must decode
	// straight to a leaf without consuming a leaf/split flag bit.
	src := bytes.NewReader(make([]byte, 32))
	dec := rac.NewDec(byteReader{src})
	tree := maniac.Decode(dec, [][2]int32{{5, 5}})
	if len(tree.Nodes) != 1 || !tree.Nodes[0].Leaf {
		t.Fatalf("expected single collapsed leaf node, got %d nodes", len(tree.Nodes))
	}
}

func TestWalkReachesALeaf(t *testing.T) {
	src := bytes.NewReader(make([]byte, 64))
	dec := rac.NewDec(byteReader{src})
	tree := maniac.Decode(dec, [][2]int32{{0, 3}, {0, 3}})
	n := tree.Walk([]int32{1, 2})
	if n == nil || !n.Leaf {
		t.Fatalf("Walk did not return a leaf node")
	}
}

func TestFinalPropertySymbolCoderRoundTripsZero(t *testing.T) {
	// An all-zero bitstream must decode to the zero-flag branch first,
	// never panicking regardless of what the gating bits happen to be.
	src := bytes.NewReader(make([]byte, 16))
	dec := rac.NewDec(byteReader{src})
	tree := maniac.Decode(dec, [][2]int32{{0, 0}})
	leaf := tree.Nodes[0]
	if !leaf.Leaf {
		t.Fatalf("expected leaf")
	}
	v := leaf.Coder.ReadInt(dec, -10, 10)
	if v < -10 || v > 10 {
		t.Fatalf("ReadInt escaped requested range: got %d", v)
	}
}
