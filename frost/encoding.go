package frost

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/f3rmion/frostsigner/group"
)

const (
	encodingVersion = 0
	headerLen       = 5
)

// SuiteTag returns the four bytes that identify a ciphersuite in encodings:
// the leading bytes of BLAKE3-256 of its context string.
func SuiteTag(suite Ciphersuite) [4]byte {
	digest := blake3.Sum256([]byte(suite.ContextString()))
	var tag [4]byte
	copy(tag[:], digest[:4])
	return tag
}

// header returns version || suite tag.
func (f *FROST) header() []byte {
	tag := SuiteTag(f.suite)
	return append([]byte{encodingVersion}, tag[:]...)
}

func (f *FROST) checkHeader(data []byte) error {
	if len(data) < headerLen {
		return errors.New("missing header")
	}
	if data[0] != encodingVersion {
		return fmt.Errorf("unsupported encoding version %d", data[0])
	}
	tag := SuiteTag(f.suite)
	if [4]byte(data[1:headerLen]) != tag {
		return ErrUnknownCiphersuite
	}
	return nil
}

// reader decodes fixed-width fields in order, remembering the first error.
type reader struct {
	g   group.Group
	buf []byte
	err error
}

func (f *FROST) newReader(data []byte) *reader {
	r := &reader{g: f.group}
	if err := f.checkHeader(data); err != nil {
		r.err = err
		return r
	}
	r.buf = data[headerLen:]
	return r
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf) < n {
		r.err = fmt.Errorf("short buffer: need %d bytes, have %d", n, len(r.buf))
		return nil
	}
	out := r.buf[:n]
	r.buf = r.buf[n:]
	return out
}

func (r *reader) scalar() group.Scalar {
	b := r.next(r.g.ScalarLen())
	if r.err != nil {
		return nil
	}
	s, err := r.g.NewScalar().SetBytes(b)
	if err != nil {
		r.err = err
		return nil
	}
	return s
}

func (r *reader) point() group.Point {
	b := r.next(r.g.PointLen())
	if r.err != nil {
		return nil
	}
	p, err := r.g.NewPoint().SetBytes(b)
	if err != nil {
		r.err = err
		return nil
	}
	return p
}

func (r *reader) identifier() *Identifier {
	s := r.scalar()
	if r.err != nil {
		return nil
	}
	if s.IsZero() {
		r.err = ErrInvalidIdentifier
		return nil
	}
	return &Identifier{s: s}
}

func (r *reader) uint16() uint16 {
	b := r.next(2)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// finish reports the first decoding error, or trailing bytes.
func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if len(r.buf) != 0 {
		return fmt.Errorf("%d trailing bytes", len(r.buf))
	}
	return nil
}
