//go:build rerandomized

package participant

import (
	"github.com/f3rmion/frostsigner/frost"
)

// Round2InvalidRandomizer means the randomizer was missing, malformed or
// zero.
const Round2InvalidRandomizer = Round2SigningFailed + 1

func init() {
	round2KindNames[Round2InvalidRandomizer] = "invalid randomizer"
}

func newCiphersuite() frost.Ciphersuite {
	return frost.NewBabyJubjubBlake2b512()
}

// Randomizer is the serialized per-session randomizer supplied by the
// coordinator.
type Randomizer struct {
	Data []byte `json:"data"`
}

// NewRandomizer validates a randomizer.
func NewRandomizer(data []byte) (*frost.Randomizer, error) {
	rnd, err := protocol.NewRandomizer(data)
	if err != nil {
		return nil, round2Error(Round2InvalidRandomizer)
	}
	return rnd, nil
}

// Sign runs round two under the verifying key re-randomized by randomizer.
// The nonces must not be used again.
func Sign(pkg SigningPackage, nonces SigningNonces, keyPackage KeyPackage, randomizer Randomizer) (*SignatureShare, error) {
	signingPackage, n, kp, err := decodeRound2(pkg, nonces, keyPackage)
	if err != nil {
		return nil, err
	}
	rnd, err := NewRandomizer(randomizer.Data)
	if err != nil {
		logger.Warn().Msg("round 2: invalid randomizer")
		return nil, err
	}
	share, err := protocol.SignRandomized(signingPackage, n, kp, rnd)
	return newSignatureShare(kp, share, err)
}
