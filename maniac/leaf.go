package maniac

import "github.com/flif-go/flif/rac"

// FinalPropertySymbolCoder is the adaptive integer coder living at each
// Tree leaf: the same sign/exponent/mantissa gating as rac.SimpleSymbolCoder,
// but built on MultiscaleBitChance estimators (FLIFBitChanceTree in the
// reference) so a leaf that turns out to see a lot of pixels converges to a
// well-adapted probability regardless of how fast or slow its local
// statistics happen to move.
type FinalPropertySymbolCoder struct {
	bits int
	zero rac.MultiscaleBitChance
	sign rac.MultiscaleBitChance
	exp  []rac.MultiscaleBitChance
	mant []rac.MultiscaleBitChance
}

// newFinalPropertySymbolCoder returns a coder sized for up to bits magnitude
// bits, with every estimator at its neutral starting probability.
func newFinalPropertySymbolCoder(bits int) *FinalPropertySymbolCoder {
	c := &FinalPropertySymbolCoder{
		bits: bits,
		zero: rac.NewMultiscaleBitChance(),
		sign: rac.NewMultiscaleBitChance(),
		exp:  make([]rac.MultiscaleBitChance, bits+1),
		mant: make([]rac.MultiscaleBitChance, bits),
	}
	for i := range c.exp {
		c.exp[i] = rac.NewMultiscaleBitChance()
	}
	for i := range c.mant {
		c.mant[i] = rac.NewMultiscaleBitChance()
	}
	return c
}

// Read decodes one signed integer from dec using this leaf's statistics.
func (c *FinalPropertySymbolCoder) Read(dec *rac.Dec) int64 {
	if dec.ReadBit(&c.zero) == 0 {
		return 0
	}
	negative := dec.ReadBit(&c.sign) == 1

	e := 0
	for e < c.bits && dec.ReadBit(&c.exp[e]) == 1 {
		e++
	}

	var val int64 = 1
	for i := e - 1; i >= 0; i-- {
		bit := dec.ReadBit(&c.mant[i])
		val = val<<1 | int64(bit)
	}
	if negative {
		val = -val
	}
	return val
}

// ReadInt decodes a signed integer and offsets it into [min, max].
func (c *FinalPropertySymbolCoder) ReadInt(dec *rac.Dec, min, max int64) int64 {
	v := min + c.Read(dec)
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}
