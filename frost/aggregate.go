package frost

import (
	"fmt"

	"github.com/f3rmion/frostsigner/group"
)

// SignerShare pairs a signature share with the identifier that produced it.
type SignerShare struct {
	Identifier *Identifier
	Share      *SignatureShare
}

// Aggregate combines signature shares into a final signature. There must be
// exactly one share per signer in pkg. When the result does not verify under
// verifyingKey each share is checked against verifyingShares and the first
// invalid one is reported.
func (f *FROST) Aggregate(
	pkg *SigningPackage,
	shares []SignerShare,
	verifyingKey group.Point,
	verifyingShares map[string]group.Point,
) (*Signature, error) {
	return f.aggregate(pkg, shares, verifyingKey, verifyingShares, nil)
}

// AggregateRandomized is Aggregate for shares produced by SignRandomized.
// The signature verifies under the randomized verifying key.
func (f *FROST) AggregateRandomized(
	pkg *SigningPackage,
	shares []SignerShare,
	verifyingKey group.Point,
	verifyingShares map[string]group.Point,
	rnd *Randomizer,
) (*Signature, error) {
	if rnd == nil {
		return nil, ErrInvalidRandomizer
	}
	return f.aggregate(pkg, shares, verifyingKey, verifyingShares, rnd)
}

func (f *FROST) aggregate(
	pkg *SigningPackage,
	shares []SignerShare,
	verifyingKey group.Point,
	verifyingShares map[string]group.Point,
	rnd *Randomizer,
) (*Signature, error) {
	if len(shares) != len(pkg.commitments) {
		return nil, fmt.Errorf("frost: got %d signature shares for %d commitments", len(shares), len(pkg.commitments))
	}
	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		if s.Identifier == nil || s.Share == nil {
			return nil, errNilIdentifier
		}
		key := string(s.Identifier.Bytes())
		if _, ok := pkg.SigningCommitments(s.Identifier); !ok {
			return nil, fmt.Errorf("%w: share from %s", ErrMissingCommitment, s.Identifier)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, s.Identifier)
		}
		seen[key] = true
	}

	signingKey := verifyingKey
	if rnd != nil {
		signingKey = f.NewRandomizedParams(verifyingKey, rnd).RandomizedVerifyingKey
	}

	// Recompute R
	bindingFactors := f.computeBindingFactors(pkg, signingKey)
	R := f.groupCommitment(pkg, bindingFactors)

	// Sum all z shares
	z := f.group.NewScalar()
	for _, s := range shares {
		z = f.group.NewScalar().Add(z, s.Share.Z)
	}
	if rnd != nil {
		c := f.challenge(R, signingKey, pkg.message)
		z = f.group.NewScalar().Add(z, f.group.NewScalar().Mul(c, rnd.s))
	}

	sig := &Signature{R: R, Z: z}
	if f.Verify(pkg.message, sig, signingKey) {
		return sig, nil
	}

	// Identify the misbehaving signer.
	for _, s := range shares {
		vs, ok := verifyingShares[string(s.Identifier.Bytes())]
		if !ok {
			return nil, fmt.Errorf("%w: no verifying share for %s", ErrInvalidSignature, s.Identifier)
		}
		if err := f.verifyShare(pkg, s.Identifier, s.Share, vs, signingKey); err != nil {
			return nil, err
		}
	}
	return nil, ErrInvalidSignature
}

// VerifySignatureShare checks one signer's share:
// z_i * G == D_i + rho_i * E_i + c * lambda_i * Y_i.
func (f *FROST) VerifySignatureShare(
	pkg *SigningPackage,
	id *Identifier,
	share *SignatureShare,
	verifyingShare, verifyingKey group.Point,
) error {
	return f.verifyShare(pkg, id, share, verifyingShare, verifyingKey)
}

// VerifySignatureShareRandomized is VerifySignatureShare for a share
// produced by SignRandomized.
func (f *FROST) VerifySignatureShareRandomized(
	pkg *SigningPackage,
	id *Identifier,
	share *SignatureShare,
	verifyingShare, verifyingKey group.Point,
	rnd *Randomizer,
) error {
	params := f.NewRandomizedParams(verifyingKey, rnd)
	return f.verifyShare(pkg, id, share, verifyingShare, params.RandomizedVerifyingKey)
}

func (f *FROST) verifyShare(
	pkg *SigningPackage,
	id *Identifier,
	share *SignatureShare,
	verifyingShare, signingKey group.Point,
) error {
	comm, ok := pkg.SigningCommitments(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingCommitment, id)
	}
	bindingFactors := f.computeBindingFactors(pkg, signingKey)
	R := f.groupCommitment(pkg, bindingFactors)
	c := f.challenge(R, signingKey, pkg.message)
	lambda, err := f.lagrangeCoefficient(id, pkg)
	if err != nil {
		return err
	}

	rho := bindingFactors[string(id.Bytes())]
	commShare := f.group.NewPoint().Add(comm.Hiding, f.group.NewPoint().ScalarMult(rho, comm.Binding))
	cLambda := f.group.NewScalar().Mul(c, lambda)
	rhs := f.group.NewPoint().Add(commShare, f.group.NewPoint().ScalarMult(cLambda, verifyingShare))
	lhs := f.group.NewPoint().ScalarMult(share.Z, f.group.Generator())

	if !lhs.Equal(rhs) {
		return fmt.Errorf("%w: from %s", ErrInvalidSignatureShare, id)
	}
	return nil
}

// Verify checks a FROST signature.
func (f *FROST) Verify(message []byte, sig *Signature, verifyingKey group.Point) bool {
	c := f.challenge(sig.R, verifyingKey, message)

	// Check: z*G == R + c*Y
	lhs := f.group.NewPoint().ScalarMult(sig.Z, f.group.Generator())

	cY := f.group.NewPoint().ScalarMult(c, verifyingKey)
	rhs := f.group.NewPoint().Add(sig.R, cY)

	return lhs.Equal(rhs)
}
