// Package meta parses the fixed-layout portion of a FLIF container: the
// magic signature (including the GNU-ar archive wrapper some tools embed a
// FLIF image inside of), the format byte, the depth byte, and the
// dimensions -- everything that precedes the range-coded body of the file.
//
// ref: original_source/src/flif-dec.cpp (flif_decode), common.hpp
package meta

import (
	"github.com/flif-go/flif/rac"
	"github.com/pkg/errors"
)

// ByteSource is the byte-at-a-time contract ParseFileHeader reads through;
// satisfied by *bufseekio.ReadSeeker and by rac.ByteSource implementers.
type ByteSource interface {
	ReadByte() (byte, error)
}

// Encoding identifies how pixel data is scanned.
type Encoding int

const (
	// EncodingNonInterlaced decodes one full raster scanline at a time.
	EncodingNonInterlaced Encoding = 1
	// EncodingInterlaced decodes coarse-to-fine across zoomlevels.
	EncodingInterlaced Encoding = 2
)

// FileHeader holds every field read before the range coder takes over.
type FileHeader struct {
	NumFrames        int
	Encoding         Encoding
	NumPlanes        int
	DepthCode        byte // '0' (custom per-plane), '1' (8-bit), '2' (16-bit)
	PlaneDepthBits   []int
	Width, Height    int
	AlphaZeroSpecial bool
}

// ParseFileHeader reads the container header from src, skipping past a
// "!<arch>\n" GNU-archive wrapper to find the "__image.flif/" member if
// present, and returns the parsed fields plus a range decoder primed to
// continue reading the rest of the file (loop count, per-frame delays,
// bitchance configuration, transform list, pixel data).
func ParseFileHeader(src ByteSource) (*FileHeader, *rac.Dec, error) {
	magic, err := readN(src, 4)
	if err != nil {
		return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read magic")
	}
	if string(magic) == "!<ar" {
		if err := skipArchiveWrapper(src); err != nil {
			return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: archive wrapper")
		}
		magic, err = readN(src, 4)
		if err != nil {
			return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read magic after archive skip")
		}
	}
	if string(magic) != "FLIF" {
		return nil, nil, errors.Errorf("meta.ParseFileHeader: bad magic %q, not a FLIF file", magic)
	}

	formatByte, err := src.ReadByte()
	if err != nil {
		return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read format byte")
	}
	if formatByte < ' ' || int(formatByte) > ' '+32+15+32 {
		return nil, nil, errors.Errorf("meta.ParseFileHeader: invalid format byte %#x", formatByte)
	}
	x := int(formatByte) - ' '

	h := &FileHeader{NumFrames: 1}
	if x > 47 {
		x -= 32
		n, err := readUint8(src)
		if err != nil {
			return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read frame count")
		}
		if n < 2 || n >= 256 {
			return nil, nil, errors.Errorf("meta.ParseFileHeader: invalid frame count %d", n)
		}
		if n == 0xff {
			n, err = readUint16BE(src)
			if err != nil {
				return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read extended frame count")
			}
			if n < 2 {
				return nil, nil, errors.Errorf("meta.ParseFileHeader: invalid extended frame count %d", n)
			}
		}
		h.NumFrames = n
	}

	h.Encoding = Encoding(x / 16)
	if h.Encoding < EncodingNonInterlaced || h.Encoding > EncodingInterlaced {
		return nil, nil, errors.Errorf("meta.ParseFileHeader: invalid encoding method %d", h.Encoding)
	}
	h.NumPlanes = x % 16
	if h.NumPlanes < 1 || h.NumPlanes > 4 || h.NumPlanes == 2 {
		return nil, nil, errors.Errorf("meta.ParseFileHeader: invalid plane count %d", h.NumPlanes)
	}

	depthByte, err := src.ReadByte()
	if err != nil {
		return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read depth byte")
	}
	if depthByte < '0' || depthByte > '2' {
		return nil, nil, errors.Errorf("meta.ParseFileHeader: invalid depth byte %q", depthByte)
	}
	h.DepthCode = depthByte

	width, err := readUint16BE(src)
	if err != nil {
		return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read width")
	}
	height, err := readUint16BE(src)
	if err != nil {
		return nil, nil, errors.Wrap(err, "meta.ParseFileHeader: read height")
	}
	if width < 1 || height < 1 {
		return nil, nil, errors.Errorf("meta.ParseFileHeader: invalid dimensions %dx%d", width, height)
	}
	h.Width, h.Height = width, height

	dec := rac.NewDec(src)
	metaCoder := rac.NewSimpleSymbolCoderBits(18)

	h.PlaneDepthBits = make([]int, h.NumPlanes)
	for p := 0; p < h.NumPlanes; p++ {
		switch h.DepthCode {
		case '1':
			h.PlaneDepthBits[p] = 8
		case '2':
			h.PlaneDepthBits[p] = 16
		default:
			h.PlaneDepthBits[p] = int(metaCoder.ReadInt(dec, 1, 16))
		}
	}

	if h.NumPlanes > 3 {
		h.AlphaZeroSpecial = metaCoder.ReadInt(dec, 0, 1) == 1
	}

	return h, dec, nil
}

func readN(src ByteSource, n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := src.ReadByte()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

func readUint8(src ByteSource) (int, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	return int(b), nil
}

func readUint16BE(src ByteSource) (int, error) {
	hi, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	return int(hi)<<8 | int(lo), nil
}

// skipArchiveWrapper consumes the remainder of a "!<arch>\n" signature and
// walks 60-byte GNU-ar member headers until it finds "__image.flif/",
// mirroring flif-dec.cpp's archive-skip loop so tools that wrap a FLIF
// image in a .a-style container (as some packaging pipelines do) still
// open directly.
func skipArchiveWrapper(src ByteSource) error {
	rest, err := readN(src, 4)
	if err != nil {
		return err
	}
	if string(rest) != "ch>\n" {
		return errors.New("meta.ParseFileHeader: malformed archive signature")
	}
	for {
		hdr, err := readN(src, 60)
		if err != nil {
			return errors.New("meta.ParseFileHeader: archive does not contain a FLIF image")
		}
		if len(hdr) >= 13 && string(hdr[:13]) == "__image.flif/" {
			return nil
		}
		sizeField := string(hdr[48:58])
		skip := parseDecimalTrimmed(sizeField)
		if skip < 0 {
			return errors.New("meta.ParseFileHeader: corrupt archive member size")
		}
		if skip%2 == 1 {
			skip++
		}
		if _, err := readN(src, skip); err != nil {
			return errors.Wrap(err, "meta.ParseFileHeader: skip archive member")
		}
	}
}

func parseDecimalTrimmed(s string) int {
	n := 0
	seenDigit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			if !seenDigit {
				continue
			}
			break
		}
		if c < '0' || c > '9' {
			if !seenDigit {
				return -1
			}
			break
		}
		seenDigit = true
		n = n*10 + int(c-'0')
	}
	if !seenDigit {
		return 0
	}
	return n
}
