//go:build !rerandomized

package coordinator_test

import (
	"testing"

	"github.com/f3rmion/frostsigner/coordinator"
	"github.com/f3rmion/frostsigner/participant"
)

func sign(pkg participant.SigningPackage, s signer) (*participant.SignatureShare, error) {
	return participant.Sign(pkg, s.round.Nonces, s.kp)
}

func aggregate(pkg participant.SigningPackage, shares []participant.SignatureShare, pub *coordinator.PublicKeyPackage) (*coordinator.Signature, error) {
	return coordinator.Aggregate(pkg, shares, pub)
}

func verifyingKey(_ *testing.T, pub *coordinator.PublicKeyPackage) []byte {
	return pub.VerifyingKey
}
