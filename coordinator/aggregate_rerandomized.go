//go:build rerandomized

package coordinator

import (
	"crypto/rand"

	"github.com/f3rmion/frostsigner/participant"
)

// GenerateRandomizer draws a fresh randomizer for one signing session.
func GenerateRandomizer() (*participant.Randomizer, error) {
	rnd, err := participant.Protocol().GenerateRandomizer(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &participant.Randomizer{Data: rnd.Bytes()}, nil
}

// RandomizedVerifyingKey returns the key that signatures made with
// randomizer verify under.
func RandomizedVerifyingKey(pubKeys *PublicKeyPackage, randomizer participant.Randomizer) ([]byte, error) {
	vk, _, err := pubKeys.decode()
	if err != nil {
		return nil, err
	}
	rnd, err := participant.NewRandomizer(randomizer.Data)
	if err != nil {
		return nil, err
	}
	return participant.Protocol().NewRandomizedParams(vk, rnd).RandomizedVerifyingKey.Bytes(), nil
}

// Aggregate combines one signature share per signer in pkg into a
// signature valid under the verifying key re-randomized by randomizer.
func Aggregate(
	pkg participant.SigningPackage,
	shares []participant.SignatureShare,
	pubKeys *PublicKeyPackage,
	randomizer participant.Randomizer,
) (*Signature, error) {
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
	rnd, err := participant.NewRandomizer(randomizer.Data)
	if err != nil {
		return nil, err
	}
	sig, err := f.AggregateRandomized(signingPackage, signerShares, vk, verifyingShares, rnd)
	if err != nil {
		return nil, err
	}
	return &Signature{Data: sig.Bytes()}, nil
}
