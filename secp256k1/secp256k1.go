package secp256k1

import (
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/f3rmion/frostsigner/group"
)

const (
	scalarLen = 32
	pointLen  = 33
)

var (
	errScalarLength = errors.New("secp256k1: invalid scalar length")
	errScalarRange  = errors.New("secp256k1: scalar not reduced modulo the group order")
	errPointLength  = errors.New("secp256k1: invalid point length")
	errPointPrefix  = errors.New("secp256k1: invalid compressed point prefix")
	errPointInvalid = errors.New("secp256k1: x coordinate not on curve")
)

// Scalar is an integer modulo the secp256k1 group order n.
type Scalar struct {
	value secp256k1.ModNScalar
}

func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.value.Add2(&a.(*Scalar).value, &b.(*Scalar).value)
	return s
}

func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var negB secp256k1.ModNScalar
	negB.NegateVal(&b.(*Scalar).value)
	s.value.Add2(&a.(*Scalar).value, &negB)
	return s
}

func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.value.Mul2(&a.(*Scalar).value, &b.(*Scalar).value)
	return s
}

func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.value.NegateVal(&a.(*Scalar).value)
	return s
}

func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.value.InverseValNonConst(&aScalar.value)
	return s, nil
}

func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.value.Set(&a.(*Scalar).value)
	return s
}

func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [32]byte
	for i := 0; i < 8; i++ {
		buf[31-i] = byte(v >> (8 * i))
	}
	s.value.SetBytes(&buf)
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.value.Bytes()
	return b[:]
}

// SetBytes decodes a 32-byte big-endian integer below n.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarLen {
		return nil, errScalarLength
	}
	var v secp256k1.ModNScalar
	if v.SetByteSlice(data) {
		return nil, errScalarRange
	}
	s.value.Set(&v)
	return s, nil
}

// SetUniformBytes reduces a big-endian integer of any length modulo n by
// Horner evaluation over 32-byte limbs.
func (s *Scalar) SetUniformBytes(data []byte) group.Scalar {
	var acc, limb, shift secp256k1.ModNScalar
	// shift = 2^256 mod n
	var two128 [32]byte
	two128[15] = 1
	shift.SetBytes(&two128)
	shift.Mul(&shift)

	head := len(data) % 32
	if head > 0 {
		limb.SetByteSlice(data[:head])
		acc.Set(&limb)
	}
	for i := head; i < len(data); i += 32 {
		var chunk [32]byte
		copy(chunk[:], data[i:i+32])
		limb.SetBytes(&chunk)
		acc.Mul(&shift)
		acc.Add(&limb)
	}
	s.value.Set(&acc)
	return s
}

func (s *Scalar) Equal(b group.Scalar) bool {
	return s.value.Equals(&b.(*Scalar).value)
}

func (s *Scalar) IsZero() bool {
	return s.value.IsZero()
}

// Point is a secp256k1 point in Jacobian coordinates.
type Point struct {
	value secp256k1.JacobianPoint
}

func (p *Point) Add(a, b group.Point) group.Point {
	var out secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a.(*Point).value, &b.(*Point).value, &out)
	p.value.Set(&out)
	return p
}

func (p *Point) Sub(a, b group.Point) group.Point {
	neg := new(Point).Negate(b)
	return p.Add(a, neg)
}

func (p *Point) Negate(a group.Point) group.Point {
	var out secp256k1.JacobianPoint
	out.Set(&a.(*Point).value)
	if !isInfinity(&out) {
		out.ToAffine()
		out.Y.Negate(1)
		out.Y.Normalize()
	}
	p.value.Set(&out)
	return p
}

func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var out secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s.(*Scalar).value, &q.(*Point).value, &out)
	p.value.Set(&out)
	return p
}

func (p *Point) Set(a group.Point) group.Point {
	p.value.Set(&a.(*Point).value)
	return p
}

// Bytes returns the 33-byte SEC1 compressed encoding. The identity has no
// compressed form and encodes as 33 zero bytes, which SetBytes rejects.
func (p *Point) Bytes() []byte {
	out := make([]byte, pointLen)
	if isInfinity(&p.value) {
		return out
	}
	var affine secp256k1.JacobianPoint
	affine.Set(&p.value)
	affine.ToAffine()
	out[0] = byte(affine.Y.IsOddBit()) + 2
	x := affine.X.Bytes()
	copy(out[1:], x[:])
	return out
}

func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointLen {
		return nil, errPointLength
	}
	if data[0] != 2 && data[0] != 3 {
		return nil, errPointPrefix
	}
	var q secp256k1.JacobianPoint
	if q.X.SetByteSlice(data[1:]) {
		return nil, fmt.Errorf("secp256k1: x coordinate out of range")
	}
	if !secp256k1.DecompressY(&q.X, data[0] == 3, &q.Y) {
		return nil, errPointInvalid
	}
	q.Y.Normalize()
	q.Z.SetInt(1)
	p.value.Set(&q)
	return p, nil
}

func (p *Point) Equal(b group.Point) bool {
	other := &b.(*Point).value
	pInf, oInf := isInfinity(&p.value), isInfinity(other)
	if pInf || oInf {
		return pInf && oInf
	}
	var x, y secp256k1.JacobianPoint
	x.Set(&p.value)
	y.Set(other)
	x.ToAffine()
	y.ToAffine()
	return x.X.Equals(&y.X) && x.Y.Equals(&y.Y)
}

func (p *Point) IsIdentity() bool {
	return isInfinity(&p.value)
}

func isInfinity(p *secp256k1.JacobianPoint) bool {
	return p.Z.IsZero() || (p.X.IsZero() && p.Y.IsZero())
}

// Secp256k1 implements [group.Group] for secp256k1.
type Secp256k1 struct{}

func (g *Secp256k1) Name() string { return "secp256k1" }

func (g *Secp256k1) NewScalar() group.Scalar {
	return new(Scalar)
}

// NewPoint returns the point at infinity.
func (g *Secp256k1) NewPoint() group.Point {
	return new(Point)
}

func (g *Secp256k1) Generator() group.Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	p := new(Point)
	secp256k1.ScalarBaseMultNonConst(&one, &p.value)
	return p
}

func (g *Secp256k1) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [48]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		s := new(Scalar)
		s.SetUniformBytes(buf[:])
		if !s.IsZero() {
			return s, nil
		}
	}
}

func (g *Secp256k1) ScalarLen() int { return scalarLen }

func (g *Secp256k1) PointLen() int { return pointLen }

func (g *Secp256k1) Order() []byte {
	n := secp256k1.S256().N
	return n.Bytes()
}
