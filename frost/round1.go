package frost

import (
	"fmt"
	"io"

	"github.com/f3rmion/frostsigner/group"
)

// SigningNonces holds a participant's nonce pair for one signing attempt.
// A value must be used for at most one call to Sign.
type SigningNonces struct {
	Hiding  group.Scalar
	Binding group.Scalar

	// Commitments are the public commitments to the nonces.
	Commitments *SigningCommitments
}

// SigningCommitments is broadcast in round 1 of signing.
type SigningCommitments struct {
	Hiding  group.Point // hiding nonce * G
	Binding group.Point // binding nonce * G
}

// Commit generates a fresh nonce pair bound to signingShare and the
// commitments to publish.
func (f *FROST) Commit(r io.Reader, signingShare group.Scalar) (*SigningNonces, *SigningCommitments, error) {
	hiding, err := f.nonceGenerate(r, signingShare)
	if err != nil {
		return nil, nil, err
	}
	binding, err := f.nonceGenerate(r, signingShare)
	if err != nil {
		return nil, nil, err
	}

	commitments := &SigningCommitments{
		Hiding:  f.group.NewPoint().ScalarMult(hiding, f.group.Generator()),
		Binding: f.group.NewPoint().ScalarMult(binding, f.group.Generator()),
	}
	nonces := &SigningNonces{
		Hiding:      hiding,
		Binding:     binding,
		Commitments: commitments,
	}
	return nonces, commitments, nil
}

// nonceGenerate hashes 32 fresh random bytes with the secret, so a weak
// random source alone does not expose the nonce.
func (f *FROST) nonceGenerate(r io.Reader, secret group.Scalar) (group.Scalar, error) {
	var random [32]byte
	if _, err := io.ReadFull(r, random[:]); err != nil {
		return nil, fmt.Errorf("frost: reading nonce randomness: %w", err)
	}
	input := append(random[:], secret.Bytes()...)
	for {
		k := f.suite.H3(input)
		if !k.IsZero() {
			return k, nil
		}
		if _, err := io.ReadFull(r, input[:32]); err != nil {
			return nil, fmt.Errorf("frost: reading nonce randomness: %w", err)
		}
	}
}

// Equal reports whether both commitments match.
func (c *SigningCommitments) Equal(other *SigningCommitments) bool {
	return other != nil && c.Hiding.Equal(other.Hiding) && c.Binding.Equal(other.Binding)
}

// EncodeSigningCommitments returns header || D || E.
func (f *FROST) EncodeSigningCommitments(c *SigningCommitments) []byte {
	out := f.header()
	out = append(out, c.Hiding.Bytes()...)
	return append(out, c.Binding.Bytes()...)
}

func (f *FROST) DecodeSigningCommitments(data []byte) (*SigningCommitments, error) {
	r := f.newReader(data)
	c := &SigningCommitments{
		Hiding:  r.point(),
		Binding: r.point(),
	}
	if err := r.finish(); err != nil {
		return nil, deserializationError("signing commitments", err)
	}
	return c, nil
}

// EncodeSigningNonces returns header || hiding || binding || D || E.
func (f *FROST) EncodeSigningNonces(n *SigningNonces) []byte {
	out := f.header()
	out = append(out, n.Hiding.Bytes()...)
	out = append(out, n.Binding.Bytes()...)
	out = append(out, n.Commitments.Hiding.Bytes()...)
	return append(out, n.Commitments.Binding.Bytes()...)
}

// DecodeSigningNonces parses a nonce pair and checks that the embedded
// commitments match it.
func (f *FROST) DecodeSigningNonces(data []byte) (*SigningNonces, error) {
	r := f.newReader(data)
	n := &SigningNonces{
		Hiding:  r.scalar(),
		Binding: r.scalar(),
		Commitments: &SigningCommitments{
			Hiding:  r.point(),
			Binding: r.point(),
		},
	}
	if err := r.finish(); err != nil {
		return nil, deserializationError("signing nonces", err)
	}
	if n.Hiding.IsZero() || n.Binding.IsZero() {
		return nil, deserializationError("signing nonces", fmt.Errorf("zero nonce"))
	}
	derived := &SigningCommitments{
		Hiding:  f.group.NewPoint().ScalarMult(n.Hiding, f.group.Generator()),
		Binding: f.group.NewPoint().ScalarMult(n.Binding, f.group.Generator()),
	}
	if !derived.Equal(n.Commitments) {
		return nil, deserializationError("signing nonces", ErrIncorrectCommitment)
	}
	return n, nil
}
