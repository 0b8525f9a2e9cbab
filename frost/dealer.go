package frost

import (
	"io"

	"github.com/f3rmion/frostsigner/group"
)

// TrustedDealerKeygen splits a fresh random secret into maxSigners shares
// with identifiers 1..maxSigners, any minSigners of which can sign. It
// returns the shares and the group verifying key.
func (f *FROST) TrustedDealerKeygen(r io.Reader, minSigners, maxSigners int) ([]*SecretShare, group.Point, error) {
	if err := f.validateThreshold(minSigners, maxSigners); err != nil {
		return nil, nil, err
	}
	secret, err := f.group.RandomScalar(r)
	if err != nil {
		return nil, nil, err
	}
	return f.SplitSecret(r, secret, minSigners, maxSigners)
}

// SplitSecret Shamir-shares secret with a Feldman VSS commitment.
func (f *FROST) SplitSecret(r io.Reader, secret group.Scalar, minSigners, maxSigners int) ([]*SecretShare, group.Point, error) {
	if err := f.validateThreshold(minSigners, maxSigners); err != nil {
		return nil, nil, err
	}

	coeffs := make([]group.Scalar, minSigners)
	coeffs[0] = f.group.NewScalar().Set(secret)
	for i := 1; i < minSigners; i++ {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, nil, err
		}
		coeffs[i] = c
	}

	commitment := make([]group.Point, minSigners)
	for i, c := range coeffs {
		commitment[i] = f.group.NewPoint().ScalarMult(c, f.group.Generator())
	}

	shares := make([]*SecretShare, maxSigners)
	for i := range shares {
		id, err := f.IdentifierFromUint16(uint16(i + 1))
		if err != nil {
			return nil, nil, err
		}
		shares[i] = &SecretShare{
			Identifier:   id,
			SigningShare: f.evalPolynomial(coeffs, id.s),
			Commitment:   commitment,
		}
	}
	return shares, commitment[0], nil
}
