package frost

import (
	"io"

	"github.com/f3rmion/frostsigner/group"
)

// Randomizer is the per-session scalar alpha that re-randomizes the group
// verifying key to Y + alpha*G.
type Randomizer struct {
	s group.Scalar
}

// NewRandomizer decodes a randomizer supplied by the coordinator. The value
// must be a canonical nonzero scalar.
func (f *FROST) NewRandomizer(data []byte) (*Randomizer, error) {
	s, err := f.group.NewScalar().SetBytes(data)
	if err != nil {
		return nil, ErrInvalidRandomizer
	}
	if s.IsZero() {
		return nil, ErrInvalidRandomizer
	}
	return &Randomizer{s: s}, nil
}

// GenerateRandomizer draws a fresh randomizer. Participants never call it;
// the coordinator does.
func (f *FROST) GenerateRandomizer(r io.Reader) (*Randomizer, error) {
	s, err := f.group.RandomScalar(r)
	if err != nil {
		return nil, err
	}
	return &Randomizer{s: s}, nil
}

func (r *Randomizer) Bytes() []byte { return r.s.Bytes() }

// Scalar returns alpha. The result must not be modified.
func (r *Randomizer) Scalar() group.Scalar { return r.s }

// RandomizedParams are the values derived from a randomizer and the group
// verifying key.
type RandomizedParams struct {
	Randomizer             *Randomizer
	RandomizerPoint        group.Point // alpha * G
	RandomizedVerifyingKey group.Point // Y + alpha * G
}

// NewRandomizedParams derives the randomized verifying key.
func (f *FROST) NewRandomizedParams(verifyingKey group.Point, rnd *Randomizer) *RandomizedParams {
	alphaG := f.group.NewPoint().ScalarMult(rnd.s, f.group.Generator())
	return &RandomizedParams{
		Randomizer:             rnd,
		RandomizerPoint:        alphaG,
		RandomizedVerifyingKey: f.group.NewPoint().Add(verifyingKey, alphaG),
	}
}
