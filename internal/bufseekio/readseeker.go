// Package bufseekio supplies the single buffered byte-stream abstraction
// every decoder component reads through: GetByte/ReadByte/AtEOF/Tell,
// matching spec.md §1's external "getc/seek/eof/tell" contract.
package bufseekio

import (
	"io"

	"github.com/icza/bitio"
)

// ReadSeeker wraps an io.Reader for sequential buffered byte access.
// Buffering is delegated to icza/bitio.Reader -- the same package the
// teacher's decoder-side bit reader (internal/bits.Reader.ReadUnary in
// mewkiz-flac) is built on -- rather than a hand-rolled port of
// bufio.Reader. FLIF's container format (spec.md §6) and its range-coded
// body are read strictly forward once the magic/archive-wrapper probe
// completes, so no seek-back capability is required; the name is kept only
// for drop-in compatibility with callers that hand us an io.ReadSeeker.
type ReadSeeker struct {
	br    *bitio.Reader
	pos   int64
	atEOF bool
}

// NewReadSeeker returns a ReadSeeker reading from r.
func NewReadSeeker(r io.Reader) *ReadSeeker {
	return &ReadSeeker{br: bitio.NewReader(r)}
}

// GetByte reads and returns the next byte, satisfying rac.ByteSource.
func (b *ReadSeeker) GetByte() (byte, error) {
	c, err := b.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			b.atEOF = true
		}
		return 0, err
	}
	b.pos++
	return c, nil
}

// ReadByte is an alias for GetByte, so ReadSeeker also satisfies
// io.ByteReader.
func (b *ReadSeeker) ReadByte() (byte, error) {
	return b.GetByte()
}

// AtEOF reports whether a previous read reached end of file.
func (b *ReadSeeker) AtEOF() bool {
	return b.atEOF
}

// Tell returns the absolute read offset, mirroring the format's getc/seek/
// eof/tell byte-stream contract.
func (b *ReadSeeker) Tell() int64 {
	return b.pos
}
