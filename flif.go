// Package flif implements a decoder for FLIF (Free Lossless Image Format):
// container parsing, the MANIAC context-tree entropy coder, the
// scanline/interlaced pixel passes, and the Bounds/Palette/Palette-Channel/
// Frame-Combine transform stack.
package flif

import (
	"hash/crc32"
	"io"
	"os"

	"github.com/flif-go/flif/internal/bufseekio"
	"github.com/flif-go/flif/meta"
	"github.com/flif-go/flif/rac"
	"github.com/pkg/errors"
)

// Logf is called with diagnostic messages as decoding progresses -- the
// parsed header summary, an ignored Quality setting, checksum mismatches. It defaults to a no-op;
// a host application may replace it to route messages to its own log.
var Logf = func(format string, args ...interface{}) {}

// Stream is the result of decoding a FLIF file: one Image per frame (a
// still image is a one-frame Stream).
type Stream struct {
	Images []*Image

	// checksum is the CRC32 the bitstream carried over the final pixel
	// data, if present.
	checksum    uint32
	hasChecksum bool
	computed    uint32
}

// Open reads and decodes the FLIF file at path with default options.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "flif.Open")
	}
	defer f.Close()
	return NewStream(f, DecodeOptions{Quality: 100})
}

// NewStream decodes a FLIF stream from r.
func NewStream(r io.ReadSeeker, opts DecodeOptions) (*Stream, error) {
	src := bufseekio.NewReadSeeker(r)
	header, dec, err := meta.ParseFileHeader(src)
	if err != nil {
		return nil, errors.Wrap(err, "flif.NewStream")
	}
	Logf("flif: %dx%d, %d plane(s), %d frame(s), encoding=%d", header.Width, header.Height, header.NumPlanes, header.NumFrames, header.Encoding)

	if opts.Quality == 0 {
		opts.Quality = 100
	}

	images, err := decodeMain(dec, header, opts)
	if err != nil {
		return nil, errors.Wrap(err, "flif.NewStream")
	}

	s := &Stream{Images: images}
	s.computed = s.computeChecksum()

	if !dec.AtEOF() {
		if sum, ok := readChecksum(dec); ok {
			s.checksum = sum
			s.hasChecksum = true
			if s.checksum != s.computed {
				Logf("flif: checksum mismatch (have %08x, want %08x); continuing with decoded data", s.computed, s.checksum)
			}
		}
	}

	return s, nil
}

// Decode decodes r with the given options, the form used by callers that
// want control over quality/progressive behavior.
func Decode(r io.ReadSeeker, opts DecodeOptions) (*Stream, error) {
	return NewStream(r, opts)
}

// Checksum returns the CRC32 the decoder computed over the final pixel
// data, and whether the bitstream carried one to compare against.
func (s *Stream) Checksum() (computed uint32, present bool, matches bool) {
	return s.computed, s.hasChecksum, s.computed == s.checksum
}

func (s *Stream) computeChecksum() uint32 {
	h := crc32.NewIEEE()
	var buf [4]byte
	for _, img := range s.Images {
		for p := 0; p < img.NumPlanes(); p++ {
			for r := 0; r < img.Height; r++ {
				for c := 0; c < img.Width; c++ {
					v := img.Get(p, r, c)
					buf[0] = byte(v >> 24)
					buf[1] = byte(v >> 16)
					buf[2] = byte(v >> 8)
					buf[3] = byte(v)
					h.Write(buf[:])
				}
			}
		}
	}
	return h.Sum32()
}

// readChecksum reads the trailing "hasChecksum" flag and, if set, the
// checksum itself: two 16-bit big-endian halves of a 32-bit CRC32 over the
// decoded pixel data, per the container's final meta-coded item.
func readChecksum(dec *rac.Dec) (sum uint32, ok bool) {
	metaCoder := rac.NewSimpleSymbolCoderBits(18)
	if metaCoder.ReadInt(dec, 0, 1) != 1 {
		return 0, false
	}
	hi := metaCoder.ReadInt(dec, 0, 0xFFFF)
	lo := metaCoder.ReadInt(dec, 0, 0xFFFF)
	return uint32(hi)<<16 | uint32(lo), true
}

// RowRGBA8 packs row r of img as 8-bit RGBA quadruplets, scaling any >8-bit
// plane down and defaulting missing channels (grayscale -> repeat into RGB,
// missing alpha -> opaque).
func (img *Image) RowRGBA8(r int) []byte {
	out := make([]byte, img.Width*4)
	nump := img.NumPlanes()
	for c := 0; c < img.Width; c++ {
		var rr, gg, bb, aa int32
		switch {
		case nump >= 3:
			rr, gg, bb = img.Get(0, r, c), img.Get(1, r, c), img.Get(2, r, c)
		case nump >= 1:
			rr = img.Get(0, r, c)
			gg, bb = rr, rr
		}
		aa = 255
		if nump > 3 {
			aa = img.Get(3, r, c)
		}
		out[c*4+0] = scaleTo8(rr, img.Ranges.Max(0))
		if nump >= 3 {
			out[c*4+1] = scaleTo8(gg, img.Ranges.Max(1))
			out[c*4+2] = scaleTo8(bb, img.Ranges.Max(2))
		} else {
			out[c*4+1] = out[c*4+0]
			out[c*4+2] = out[c*4+0]
		}
		if nump > 3 {
			out[c*4+3] = scaleTo8(aa, img.Ranges.Max(3))
		} else {
			out[c*4+3] = 255
		}
	}
	return out
}

func scaleTo8(v, max int32) byte {
	if max <= 0 {
		return 0
	}
	if max == 255 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return byte(v)
	}
	scaled := int64(v) * 255 / int64(max)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return byte(scaled)
}
