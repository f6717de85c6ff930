// Package maniac implements the MANIAC (Meta-Adaptive Near-zero Integer
// Arithmetic Coding) context tree: a per-plane binary decision tree whose
// internal nodes test a property value against a learned threshold, and
// whose leaves hold their own adaptive integer coder. Unlike a fixed context
// model, both the tree shape and the per-leaf statistics are derived from
// the image being decoded, so the tree itself is transmitted in the
// bitstream before any pixel is coded.
package maniac

import "github.com/flif-go/flif/rac"

// noChild marks the absence of a child in a Tree's arena.
const noChild = -1

// Node is one arena slot: either a split testing Property against Test (the
// reference's ">= threshold" branch goes right), or a leaf holding its own
// FinalPropertySymbolCoder.
type Node struct {
	Leaf bool

	// Split fields.
	Property int
	Test     int32
	Left     int32
	Right    int32

	// Leaf field.
	Coder *FinalPropertySymbolCoder
}

// Tree is an arena of Nodes built once per plane by Decode, then walked once
// per pixel by Walk.
type Tree struct {
	Nodes []Node
}

// Walk descends from the root, following Left/Right according to how props
// compares against each split's threshold, and returns the leaf reached.
func (t *Tree) Walk(props []int32) *Node {
	idx := int32(0)
	for {
		n := &t.Nodes[idx]
		if n.Leaf {
			return n
		}
		if props[n.Property] >= n.Test {
			idx = n.Right
		} else {
			idx = n.Left
		}
	}
}

// leafBits is the magnitude width used for per-leaf FinalPropertySymbolCoder
// instances, matching the SimpleSymbolCoder<_,18> instantiation used
// elsewhere for adaptive integer coding.
const leafBits = 18

// NewEmptyTree returns a single-leaf tree whose leaf holds a fresh
// FinalPropertySymbolCoder: every property vector routes straight to that
// one leaf's adaptive model. Used for the interlaced "rough pass"
// (ref: original_source/src/flif-dec.cpp, flif_decode_main's roughZL
// handling), which decodes a coarse preview before the real MANIAC tree for
// a plane has even been read off the wire.
func NewEmptyTree() *Tree {
	return &Tree{Nodes: []Node{{Leaf: true, Coder: newFinalPropertySymbolCoder(leafBits)}}}
}

// Decode reads a complete tree from dec: a MetaPropertySymbolCoder-coded
// recursive structure of split/leaf flags, property indices, and
// thresholds, with propRanges giving the valid [min,max] for each property
// (used to pick a sensible threshold range and to stop splitting a property
// that's already been narrowed to a single value).
func Decode(dec *rac.Dec, propRanges [][2]int32) *Tree {
	t := &Tree{}
	m := newMetaCoder(len(propRanges))
	t.buildNode(dec, m, propRanges)
	return t
}

// buildNode appends one node (and, recursively, its subtree) to t's arena
// and returns its index.
func (t *Tree) buildNode(dec *rac.Dec, m *metaCoder, propRanges [][2]int32) int32 {
	idx := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{})

	if m.readIsLeaf(dec, propRanges) {
		t.Nodes[idx] = Node{Leaf: true, Coder: newFinalPropertySymbolCoder(leafBits)}
		return idx
	}

	prop := m.readProperty(dec, propRanges)
	lo, hi := propRanges[prop][0], propRanges[prop][1]
	if lo >= hi {
		// The chosen property is already narrowed to a single value: stop
		// splitting here.
		t.Nodes[idx] = Node{Leaf: true, Coder: newFinalPropertySymbolCoder(leafBits)}
		return idx
	}
	test := m.readThreshold(dec, lo, hi)

	leftRanges := cloneRanges(propRanges)
	leftRanges[prop][1] = test - 1
	rightRanges := cloneRanges(propRanges)
	rightRanges[prop][0] = test

	left := t.buildNode(dec, m, leftRanges)
	right := t.buildNode(dec, m, rightRanges)

	t.Nodes[idx] = Node{
		Leaf:     false,
		Property: prop,
		Test:     test,
		Left:     left,
		Right:    right,
	}
	return idx
}

func cloneRanges(r [][2]int32) [][2]int32 {
	out := make([][2]int32, len(r))
	copy(out, r)
	return out
}

// metaCoder decodes the shape of the tree itself: at each node, whether it's
// a leaf, and if not, which property it tests and at what threshold. This
// is what the reference calls the MetaPropertySymbolCoder.
type metaCoder struct {
	leafChance  rac.SimpleBitChance
	threshCoder *rac.SimpleSymbolCoder
	nProps      int
}

func newMetaCoder(nProps int) *metaCoder {
	return &metaCoder{
		leafChance:  rac.NewSimpleBitChance(),
		threshCoder: rac.NewSimpleSymbolCoderBits(leafBits),
		nProps:      nProps,
	}
}

// readIsLeaf decodes the leaf/split flag for the current node. A property
// set with no splittable property left (every range collapsed to a single
// value) is always a leaf, without spending a bit on it.
func (m *metaCoder) readIsLeaf(dec *rac.Dec, propRanges [][2]int32) bool {
	splittable := false
	for _, r := range propRanges {
		if r[1] > r[0] {
			splittable = true
			break
		}
	}
	if !splittable {
		return true
	}
	return dec.ReadBit(&m.leafChance) == 1
}

// readProperty decodes which property index this split node tests, drawn
// uniformly from all nProps indices (including properties whose range has
// already collapsed; buildNode turns such a split into a leaf).
func (m *metaCoder) readProperty(dec *rac.Dec, propRanges [][2]int32) int {
	u := rac.NewUniformSymbolCoder(dec)
	return int(u.ReadInt(0, int64(m.nProps-1)))
}

// readThreshold decodes the split threshold, an integer strictly within
// [lo, hi] (a threshold equal to lo or outside the range would make one
// branch empty).
func (m *metaCoder) readThreshold(dec *rac.Dec, lo, hi int32) int32 {
	v := m.threshCoder.ReadInt(dec, int64(lo)+1, int64(hi))
	return int32(v)
}
