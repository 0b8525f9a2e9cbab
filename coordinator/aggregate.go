//go:build !rerandomized

package coordinator

import (
	"github.com/f3rmion/frostsigner/participant"
)

// Aggregate combines one signature share per signer in pkg into a
// signature valid under pubKeys.VerifyingKey.
func Aggregate(pkg participant.SigningPackage, shares []participant.SignatureShare, pubKeys *PublicKeyPackage) (*Signature, error) {
	if len(shares) == 0 {
		return nil, errNoShares
	}
	f := participant.Protocol()
	signingPackage, err := f.DecodeSigningPackage(pkg.Data)
	if err != nil {
		return nil, err
	}
	signerShares, err := decodeShares(shares)
	if err != nil {
		return nil, err
	}
	vk, verifyingShares, err := pubKeys.decode()
	if err != nil {
		return nil, err
	}
	sig, err := f.Aggregate(signingPackage, signerShares, vk, verifyingShares)
	if err != nil {
		return nil, err
	}
	return &Signature{Data: sig.Bytes()}, nil
}
