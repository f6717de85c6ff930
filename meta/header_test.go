package meta_test

import (
	"bytes"
	"testing"

	"github.com/flif-go/flif/meta"
)

type byteReader struct{ r *bytes.Reader }

func (b byteReader) ReadByte() (byte, error) { return b.r.ReadByte() }

func buildHeader(formatByte byte, depth byte, width, height uint16, extra ...byte) []byte {
	buf := []byte("FLIF")
	buf = append(buf, formatByte, depth)
	buf = append(buf, byte(width>>8), byte(width))
	buf = append(buf, byte(height>>8), byte(height))
	buf = append(buf, extra...)
	return buf
}

func TestParseFileHeaderRejectsBadMagic(t *testing.T) {
	src := byteReader{bytes.NewReader([]byte("NOPE"))}
	if _, _, err := meta.ParseFileHeader(src); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestParseFileHeaderStillImageRGB(t *testing.T) {
	// format byte ' '+16+3 = encoding 1 (non-interlaced), 3 planes (RGB).
	formatByte := byte(' ' + 16 + 3)
	data := buildHeader(formatByte, '1', 4, 3, 0, 0, 0, 0, 0, 0, 0, 0)
	src := byteReader{bytes.NewReader(data)}
	h, dec, err := meta.ParseFileHeader(src)
	if err != nil {
		t.Fatalf("ParseFileHeader: unexpected error: %v", err)
	}
	if dec == nil {
		t.Fatalf("expected a non-nil range decoder")
	}
	if h.NumFrames != 1 {
		t.Errorf("NumFrames = %d, want 1", h.NumFrames)
	}
	if h.Encoding != meta.EncodingNonInterlaced {
		t.Errorf("Encoding = %d, want %d", h.Encoding, meta.EncodingNonInterlaced)
	}
	if h.NumPlanes != 3 {
		t.Errorf("NumPlanes = %d, want 3", h.NumPlanes)
	}
	if h.Width != 4 || h.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 4x3", h.Width, h.Height)
	}
	if h.PlaneDepthBits[0] != 8 {
		t.Errorf("PlaneDepthBits[0] = %d, want 8", h.PlaneDepthBits[0])
	}
}

func TestParseFileHeaderRejectsTwoPlanes(t *testing.T) {
	formatByte := byte(' ' + 16 + 2)
	data := buildHeader(formatByte, '1', 1, 1)
	src := byteReader{bytes.NewReader(data)}
	if _, _, err := meta.ParseFileHeader(src); err == nil {
		t.Fatalf("expected error for unsupported 2-plane header")
	}
}
