package bjj

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/cronokirby/saferith"

	"github.com/f3rmion/frostsigner/group"
)

const (
	scalarLen = 32
	pointLen  = 32
)

var (
	// curveOrder is the Baby Jubjub subgroup order.
	// This is distinct from the BN254 scalar field order (Fr).
	curveOrder *big.Int
	order      *saferith.Modulus
)

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
	order = saferith.ModulusFromBytes(curveOrder.Bytes())
}

var (
	errScalarLength = errors.New("bjj: invalid scalar length")
	errScalarRange  = errors.New("bjj: scalar not reduced modulo the subgroup order")
	errPointLength  = errors.New("bjj: invalid point length")
	errPointInvalid = errors.New("bjj: point is not in the prime-order subgroup")
	errIdentity     = errors.New("bjj: identity point")
)

// Scalar represents an element of the Baby Jubjub scalar field.
// It implements [group.Scalar] on top of saferith's constant-time
// modular arithmetic over the curve's subgroup order.
type Scalar struct {
	inner *saferith.Nat
}

// newScalar creates a new scalar initialized to zero.
func newScalar() *Scalar {
	return &Scalar{inner: new(saferith.Nat).Mod(new(saferith.Nat).SetUint64(0), order)}
}

// Add sets s to a + b (mod curveOrder) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.ModAdd(a.(*Scalar).inner, b.(*Scalar).inner, order)
	return s
}

// Sub sets s to a - b (mod curveOrder) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.ModSub(a.(*Scalar).inner, b.(*Scalar).inner, order)
	return s
}

// Mul sets s to a * b (mod curveOrder) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.ModMul(a.(*Scalar).inner, b.(*Scalar).inner, order)
	return s
}

// Negate sets s to -a (mod curveOrder) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.ModNeg(a.(*Scalar).inner, order)
	return s
}

// Invert sets s to a^(-1) (mod curveOrder) and returns s.
// Returns an error if a is zero, as zero has no multiplicative inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.ModInverse(aScalar.inner, order)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.SetNat(a.(*Scalar).inner)
	return s
}

// SetUint64 sets s to v (mod curveOrder) and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	s.inner.Mod(new(saferith.Nat).SetUint64(v), order)
	return s
}

// Bytes returns the scalar as a 32-byte big-endian representation.
func (s *Scalar) Bytes() []byte {
	return s.inner.FillBytes(make([]byte, scalarLen))
}

// SetBytes sets s from a 32-byte big-endian encoding and returns s.
// Values at or above the subgroup order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarLen {
		return nil, errScalarLength
	}
	n := new(saferith.Nat).SetBytes(data)
	if _, _, lt := n.CmpMod(order); lt != 1 {
		return nil, errScalarRange
	}
	s.inner.Mod(n, order)
	return s, nil
}

// SetUniformBytes interprets data as a big-endian integer, reduces it
// modulo the subgroup order and returns s.
func (s *Scalar) SetUniformBytes(data []byte) group.Scalar {
	s.inner.Mod(new(saferith.Nat).SetBytes(data), order)
	return s
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Eq(b.(*Scalar).inner) == 1
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.EqZero() == 1
}

// Point represents a point on the Baby Jubjub curve.
// It implements [group.Point] by wrapping gnark-crypto's PointAffine.
//
// Points are represented in affine coordinates (x, y) on the twisted
// Edwards curve. The identity element is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&b.(*Point).inner)
	p.inner.Add(&a.(*Point).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*Point).inner, s.(*Scalar).inner.Big())
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the compressed point encoding as a byte slice.
func (p *Point) Bytes() []byte {
	bytes := p.inner.Bytes()
	return bytes[:]
}

// SetBytes sets p from a compressed point encoding and returns p.
// Returns an error if the data does not represent a point of the
// prime-order subgroup, or if it encodes the identity.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointLen {
		return nil, errPointLength
	}
	var q twistededwards.PointAffine
	if _, err := q.SetBytes(data); err != nil {
		return nil, fmt.Errorf("bjj: %w", err)
	}
	if !q.IsOnCurve() {
		return nil, errPointInvalid
	}
	if q.IsZero() {
		return nil, errIdentity
	}
	var check twistededwards.PointAffine
	check.ScalarMultiplication(&q, curveOrder)
	if !check.IsZero() {
		return nil, errPointInvalid
	}
	p.inner.Set(&q)
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
//
// BJJ is a zero-sized type that provides access to Baby Jubjub curve
// operations. Create an instance with &BJJ{} or new(BJJ).
type BJJ struct{}

// Name returns "babyjubjub".
func (g *BJJ) Name() string { return "babyjubjub" }

// NewScalar returns a new scalar initialized to zero.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point initialized to the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point for the Baby Jubjub curve.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// RandomScalar generates a cryptographically random nonzero scalar using
// the provided random source. 64 bytes are reduced so that the bias
// towards small values is negligible.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		s := newScalar()
		s.SetUniformBytes(buf[:])
		if !s.IsZero() {
			return s, nil
		}
	}
}

// ScalarLen returns 32.
func (g *BJJ) ScalarLen() int { return scalarLen }

// PointLen returns 32.
func (g *BJJ) PointLen() int { return pointLen }

// Order returns the order of the Baby Jubjub curve's prime-order subgroup
// as a big-endian byte slice.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}
