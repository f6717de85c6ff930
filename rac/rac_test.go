package rac_test

import (
	"bytes"
	"testing"

	"github.com/flif-go/flif/rac"
)

// zeroSource is a ByteSource that always reports EOF, used to exercise the
// EOF-as-zero behavior of Dec without a real encoder.
type zeroSource struct{}

func (zeroSource) ReadByte() (byte, error) { return 0, bytes.ErrTooLarge }

func TestNewDecAtEOFImmediately(t *testing.T) {
	d := rac.NewDec(zeroSource{})
	if !d.AtEOF() {
		t.Fatalf("expected AtEOF after priming from an exhausted source")
	}
}

func TestReadUniformIntRange(t *testing.T) {
	// An all-zero byte stream, fed through ReadUniformInt, must still return
	// a value inside the requested range (never panic, never go out of
	// bounds), regardless of what bits happen to be extracted.
	src := bytes.NewReader(make([]byte, 64))
	d := rac.NewDec(byteReader{src})
	for _, bounds := range [][2]int64{{0, 0}, {0, 1}, {-5, 5}, {10, 10}, {0, 255}} {
		got := d.ReadUniformInt(bounds[0], bounds[1])
		if got < bounds[0] || got > bounds[1] {
			t.Errorf("ReadUniformInt(%d,%d) = %d, out of range", bounds[0], bounds[1], got)
		}
	}
}

func TestBitChanceStaysWithinBounds(t *testing.T) {
	c := rac.NewSimpleBitChance()
	for i := 0; i < 10000; i++ {
		c.Update(i % 2)
		p := c.P12()
		if p == 0 || p >= 4096 {
			t.Fatalf("probability escaped (0,4096): got %d at iteration %d", p, i)
		}
	}
}

func TestMultiscaleBitChanceStaysWithinBounds(t *testing.T) {
	m := rac.NewMultiscaleBitChance()
	for i := 0; i < 10000; i++ {
		m.Update(i % 3 / 2) // biased sequence: 0,0,1,0,0,1,...
		p := m.P12()
		if p == 0 || p >= 4096 {
			t.Fatalf("probability escaped (0,4096): got %d at iteration %d", p, i)
		}
	}
}

// byteReader adapts a *bytes.Reader to rac.ByteSource.
type byteReader struct {
	r *bytes.Reader
}

func (b byteReader) ReadByte() (byte, error) { return b.r.ReadByte() }
