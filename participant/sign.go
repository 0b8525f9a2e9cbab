//go:build !rerandomized

package participant

import "github.com/f3rmion/frostsigner/frost"

func newCiphersuite() frost.Ciphersuite {
	return frost.NewEd25519SHA512()
}

// Sign runs round two: it produces the signature share of keyPackage over
// pkg using the nonces from the matching Commit call. The nonces must not be
// used again.
func Sign(pkg SigningPackage, nonces SigningNonces, keyPackage KeyPackage) (*SignatureShare, error) {
	signingPackage, n, kp, err := decodeRound2(pkg, nonces, keyPackage)
	if err != nil {
		return nil, err
	}
	share, err := protocol.Sign(signingPackage, n, kp)
	return newSignatureShare(kp, share, err)
}
