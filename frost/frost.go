package frost

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/f3rmion/frostsigner/group"
)

// FROST binds the protocol operations to one ciphersuite.
type FROST struct {
	suite Ciphersuite
	group group.Group

	// littleEndian is set for groups whose scalar encoding is little-endian;
	// identifiers are ordered by numeric value regardless.
	littleEndian bool
}

// Signature is a Schnorr signature.
type Signature struct {
	R group.Point
	Z group.Scalar
}

// New creates a FROST instance for the given ciphersuite.
func New(suite Ciphersuite) (*FROST, error) {
	if suite == nil {
		return nil, errors.New("frost: nil ciphersuite")
	}
	g := suite.Group()
	one := g.NewScalar().SetUint64(1).Bytes()

	return &FROST{
		suite:        suite,
		group:        g,
		littleEndian: one[0] == 1,
	}, nil
}

// Ciphersuite returns the suite f was created with.
func (f *FROST) Ciphersuite() Ciphersuite { return f.suite }

// Group returns the suite's group.
func (f *FROST) Group() group.Group { return f.group }

// Bytes returns R || z.
func (s *Signature) Bytes() []byte {
	out := append([]byte{}, s.R.Bytes()...)
	return append(out, s.Z.Bytes()...)
}

// DecodeSignature parses R || z.
func (f *FROST) DecodeSignature(data []byte) (*Signature, error) {
	pl, sl := f.group.PointLen(), f.group.ScalarLen()
	if len(data) != pl+sl {
		return nil, deserializationError("signature", fmt.Errorf("length %d, want %d", len(data), pl+sl))
	}
	r, err := f.group.NewPoint().SetBytes(data[:pl])
	if err != nil {
		return nil, deserializationError("signature", err)
	}
	z, err := f.group.NewScalar().SetBytes(data[pl:])
	if err != nil {
		return nil, deserializationError("signature", err)
	}
	return &Signature{R: r, Z: z}, nil
}

// compareScalars orders scalars by numeric value.
func (f *FROST) compareScalars(a, b group.Scalar) int {
	ab, bb := a.Bytes(), b.Bytes()
	if f.littleEndian {
		reverse(ab)
		reverse(bb)
	}
	return bytes.Compare(ab, bb)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}

// evalCommitment returns sum(commitments[k] * x^k).
func (f *FROST) evalCommitment(commitments []group.Point, x group.Scalar) group.Point {
	result := f.group.NewPoint()
	xPower := f.group.NewScalar().SetUint64(1)

	for _, commit := range commitments {
		term := f.group.NewPoint().ScalarMult(xPower, commit)
		result = f.group.NewPoint().Add(result, term)
		xPower = f.group.NewScalar().Mul(xPower, x)
	}
	return result
}

func (f *FROST) validateThreshold(minSigners, maxSigners int) error {
	if minSigners < 2 {
		return fmt.Errorf("%w: min signers must be at least 2", ErrInvalidThreshold)
	}
	if maxSigners < minSigners {
		return fmt.Errorf("%w: max signers must be >= min signers", ErrInvalidThreshold)
	}
	if maxSigners > 0xffff {
		return fmt.Errorf("%w: max signers must fit in 16 bits", ErrInvalidThreshold)
	}
	return nil
}
