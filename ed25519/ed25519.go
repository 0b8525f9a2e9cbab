package ed25519

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/f3rmion/frostsigner/group"
)

const (
	scalarLen = 32
	pointLen  = 32
)

// order is l = 2^252 + 27742317777372353535851937790883648493, big-endian.
var order = []byte{
	0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x14, 0xde, 0xf9, 0xde, 0xa2, 0xf7, 0x9c, 0xd6,
	0x58, 0x12, 0x63, 0x1a, 0x5c, 0xf5, 0xd3, 0xed,
}

var (
	errScalarLength = errors.New("ed25519: invalid scalar length")
	errPointLength  = errors.New("ed25519: invalid point length")
	errNonCanonical = errors.New("ed25519: non-canonical point encoding")
	errIdentity     = errors.New("ed25519: identity point")
	errTorsion      = errors.New("ed25519: point has a small-order component")
)

// minusOne is l-1, used for the prime-order subgroup check.
var minusOne = edwards25519.NewScalar().Subtract(edwards25519.NewScalar(), scalarOne())

func scalarOne() *edwards25519.Scalar {
	var buf [64]byte
	buf[0] = 1
	s, _ := edwards25519.NewScalar().SetUniformBytes(buf[:])
	return s
}

// Scalar is an integer modulo l wrapping [edwards25519.Scalar].
type Scalar struct {
	inner edwards25519.Scalar
}

func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^-1 mod l. It fails for a = 0.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.Invert(&aScalar.inner)
	return s, nil
}

func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [64]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	s.inner.SetUniformBytes(buf[:])
	return s
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes decodes a 32-byte little-endian canonical encoding.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarLen {
		return nil, errScalarLength
	}
	if _, err := s.inner.SetCanonicalBytes(data); err != nil {
		return nil, fmt.Errorf("ed25519: %w", err)
	}
	return s, nil
}

// SetUniformBytes reduces a little-endian integer of any length modulo l.
// Inputs longer than 64 bytes are folded as lo + 2^512*hi.
func (s *Scalar) SetUniformBytes(data []byte) group.Scalar {
	var buf [64]byte
	if len(data) <= 64 {
		copy(buf[:], data)
		s.inner.SetUniformBytes(buf[:])
		return s
	}
	copy(buf[:], data[:64])
	lo, _ := edwards25519.NewScalar().SetUniformBytes(buf[:])
	hi := new(Scalar)
	hi.SetUniformBytes(data[64:])

	var two256 [64]byte
	two256[32] = 1
	t, _ := edwards25519.NewScalar().SetUniformBytes(two256[:])
	t.Multiply(t, t)
	t.Multiply(t, &hi.inner)
	s.inner.Add(lo, t)
	return s
}

func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(&b.(*Scalar).inner) == 1
}

func (s *Scalar) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

// Point is an element of the edwards25519 group.
type Point struct {
	inner edwards25519.Point
}

func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(&a.(*Point).inner)
	return p
}

func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(&s.(*Scalar).inner, &q.(*Point).inner)
	return p
}

func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed Edwards encoding.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// SetBytes decodes a 32-byte compressed point. Non-canonical encodings,
// the identity and points with a torsion component are rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointLen {
		return nil, errPointLength
	}
	q, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, fmt.Errorf("ed25519: %w", err)
	}
	// edwards25519 accepts non-canonical encodings of valid points.
	if !bytes.Equal(q.Bytes(), data) {
		return nil, errNonCanonical
	}
	if q.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return nil, errIdentity
	}
	// (l-1)*Q + Q is the identity iff Q lies in the prime-order subgroup.
	check := new(edwards25519.Point).ScalarMult(minusOne, q)
	check.Add(check, q)
	if check.Equal(edwards25519.NewIdentityPoint()) != 1 {
		return nil, errTorsion
	}
	p.inner.Set(q)
	return p, nil
}

func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner) == 1
}

func (p *Point) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}

// Ed25519 implements [group.Group] for edwards25519.
type Ed25519 struct{}

func (g *Ed25519) Name() string { return "edwards25519" }

func (g *Ed25519) NewScalar() group.Scalar {
	return new(Scalar)
}

func (g *Ed25519) NewPoint() group.Point {
	p := new(Point)
	p.inner.Set(edwards25519.NewIdentityPoint())
	return p
}

func (g *Ed25519) Generator() group.Point {
	p := new(Point)
	p.inner.Set(edwards25519.NewGeneratorPoint())
	return p
}

// RandomScalar reduces 64 random bytes modulo l, retrying on zero.
func (g *Ed25519) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		s := new(Scalar)
		if _, err := s.inner.SetUniformBytes(buf[:]); err != nil {
			return nil, err
		}
		if !s.IsZero() {
			return s, nil
		}
	}
}

func (g *Ed25519) ScalarLen() int { return scalarLen }

func (g *Ed25519) PointLen() int { return pointLen }

func (g *Ed25519) Order() []byte {
	out := make([]byte, len(order))
	copy(out, order)
	return out
}
