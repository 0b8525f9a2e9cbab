package frost

import (
	"fmt"

	"github.com/f3rmion/frostsigner/group"
)

// SignatureShare is a participant's share of the signature.
type SignatureShare struct {
	Z group.Scalar
}

// Bytes returns the canonical scalar encoding of the share.
func (s *SignatureShare) Bytes() []byte { return s.Z.Bytes() }

// DecodeSignatureShare parses exactly one scalar encoding.
func (f *FROST) DecodeSignatureShare(data []byte) (*SignatureShare, error) {
	z, err := f.group.NewScalar().SetBytes(data)
	if err != nil {
		return nil, deserializationError("signature share", err)
	}
	return &SignatureShare{Z: z}, nil
}

// Sign produces the signature share of kp over pkg. The nonces must come
// from the Commit call whose commitments are in pkg, and must not be used
// again afterwards.
func (f *FROST) Sign(pkg *SigningPackage, nonces *SigningNonces, kp *KeyPackage) (*SignatureShare, error) {
	return f.sign(pkg, nonces, kp, kp.VerifyingKey)
}

// SignRandomized is Sign under the verifying key re-randomized by rnd.
func (f *FROST) SignRandomized(pkg *SigningPackage, nonces *SigningNonces, kp *KeyPackage, rnd *Randomizer) (*SignatureShare, error) {
	if rnd == nil {
		return nil, ErrInvalidRandomizer
	}
	params := f.NewRandomizedParams(kp.VerifyingKey, rnd)
	return f.sign(pkg, nonces, kp, params.RandomizedVerifyingKey)
}

func (f *FROST) sign(pkg *SigningPackage, nonces *SigningNonces, kp *KeyPackage, verifyingKey group.Point) (*SignatureShare, error) {
	own, ok := pkg.SigningCommitments(kp.Identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingCommitment, kp.Identifier)
	}
	if !own.Equal(nonces.Commitments) {
		return nil, ErrIncorrectCommitment
	}
	if len(pkg.commitments) < int(kp.MinSigners) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughCommitments, len(pkg.commitments), kp.MinSigners)
	}

	bindingFactors := f.computeBindingFactors(pkg, verifyingKey)
	R := f.groupCommitment(pkg, bindingFactors)
	c := f.challenge(R, verifyingKey, pkg.message)
	lambda, err := f.lagrangeCoefficient(kp.Identifier, pkg)
	if err != nil {
		return nil, err
	}

	// z_i = d + rho * e + lambda * s * c
	myRho := bindingFactors[string(kp.Identifier.Bytes())]

	z := f.group.NewScalar().Mul(myRho, nonces.Binding)         // rho * e
	z = f.group.NewScalar().Add(nonces.Hiding, z)               // d + rho * e
	lambdaS := f.group.NewScalar().Mul(lambda, kp.SigningShare) // lambda * s
	lambdaSC := f.group.NewScalar().Mul(lambdaS, c)             // lambda * s * c
	z = f.group.NewScalar().Add(z, lambdaSC)                    // d + rho*e + lambda*s*c

	return &SignatureShare{Z: z}, nil
}

// encodeCommitmentList returns id || D || E for every signer in order.
func (f *FROST) encodeCommitmentList(pkg *SigningPackage) []byte {
	var out []byte
	for _, c := range pkg.commitments {
		out = append(out, c.Identifier.Bytes()...)
		out = append(out, c.Commitments.Hiding.Bytes()...)
		out = append(out, c.Commitments.Binding.Bytes()...)
	}
	return out
}

// computeBindingFactors returns rho_i = H1(Y || H4(msg) || H5(list) || id_i)
// keyed by encoded identifier.
func (f *FROST) computeBindingFactors(pkg *SigningPackage, verifyingKey group.Point) map[string]group.Scalar {
	factors := make(map[string]group.Scalar, len(pkg.commitments))

	prefix := append([]byte{}, verifyingKey.Bytes()...)
	prefix = append(prefix, f.suite.H4(pkg.message)...)
	prefix = append(prefix, f.suite.H5(f.encodeCommitmentList(pkg))...)

	for _, c := range pkg.commitments {
		id := c.Identifier.Bytes()
		input := append(append([]byte{}, prefix...), id...)
		factors[string(id)] = f.suite.H1(input)
	}
	return factors
}

// groupCommitment returns R = sum(D_i + rho_i * E_i).
func (f *FROST) groupCommitment(pkg *SigningPackage, bindingFactors map[string]group.Scalar) group.Point {
	R := f.group.NewPoint()
	for _, c := range pkg.commitments {
		rho := bindingFactors[string(c.Identifier.Bytes())]
		rhoE := f.group.NewPoint().ScalarMult(rho, c.Commitments.Binding)
		term := f.group.NewPoint().Add(c.Commitments.Hiding, rhoE)
		R = f.group.NewPoint().Add(R, term)
	}
	return R
}

// challenge returns c = H2(R || Y || msg).
func (f *FROST) challenge(R, verifyingKey group.Point, message []byte) group.Scalar {
	input := append([]byte{}, R.Bytes()...)
	input = append(input, verifyingKey.Bytes()...)
	input = append(input, message...)
	return f.suite.H2(input)
}

// lagrangeCoefficient returns the coefficient of id at x = 0 over the
// identifiers in pkg.
func (f *FROST) lagrangeCoefficient(id *Identifier, pkg *SigningPackage) (group.Scalar, error) {
	num := f.group.NewScalar().SetUint64(1)
	den := f.group.NewScalar().SetUint64(1)

	for _, c := range pkg.commitments {
		if c.Identifier.Equal(id) {
			continue
		}
		// num *= x_j
		num = f.group.NewScalar().Mul(num, c.Identifier.s)
		// den *= (x_j - x_i)
		diff := f.group.NewScalar().Sub(c.Identifier.s, id.s)
		den = f.group.NewScalar().Mul(den, diff)
	}

	denInv, err := f.group.NewScalar().Invert(den)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDuplicateIdentifier, err)
	}
	return f.group.NewScalar().Mul(num, denInv), nil
}
