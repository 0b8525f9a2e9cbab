package coordinator

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/f3rmion/frostsigner/frost"
	"github.com/f3rmion/frostsigner/group"
	"github.com/f3rmion/frostsigner/participant"
)

// Message is the payload to be signed.
type Message struct {
	Data []byte `json:"data"`
}

// PublicKeyPackage holds the group verifying key and every participant's
// verifying share, keyed by hex identifier.
type PublicKeyPackage struct {
	VerifyingShares map[string][]byte `json:"verifying_shares"`
	VerifyingKey    []byte            `json:"verifying_key"`
}

// Signature is a serialized aggregated signature, R || z.
type Signature struct {
	Data []byte `json:"data"`
}

// NewSigningPackage collects round-one commitments into a signing package.
func NewSigningPackage(message Message, commitments []participant.SigningCommitments) (*participant.SigningPackage, error) {
	f := participant.Protocol()
	entries := make([]frost.SignerCommitments, len(commitments))
	for i, c := range commitments {
		id, sc, err := c.Decode()
		if err != nil {
			return nil, fmt.Errorf("commitment %d: %w", i, err)
		}
		entries[i] = frost.SignerCommitments{Identifier: id, Commitments: sc}
	}
	pkg, err := f.NewSigningPackage(message.Data, entries)
	if err != nil {
		return nil, err
	}
	data, err := f.EncodeSigningPackage(pkg)
	if err != nil {
		return nil, err
	}
	return &participant.SigningPackage{Data: data}, nil
}

// TrustedDealerKeygen generates a fresh key and splits it into maxSigners
// secret shares with identifiers 1..maxSigners.
func TrustedDealerKeygen(minSigners, maxSigners int) ([]participant.SecretKeyShare, *PublicKeyPackage, error) {
	f := participant.Protocol()
	shares, verifyingKey, err := f.TrustedDealerKeygen(rand.Reader, minSigners, maxSigners)
	if err != nil {
		return nil, nil, err
	}
	records := make([]participant.SecretKeyShare, len(shares))
	pub := &PublicKeyPackage{
		VerifyingShares: make(map[string][]byte, len(shares)),
		VerifyingKey:    verifyingKey.Bytes(),
	}
	for i, s := range shares {
		id := participant.NewParticipantIdentifier(s.Identifier)
		records[i] = participant.SecretKeyShare{
			Identifier: id,
			Data:       f.EncodeSecretShare(s),
		}
		vs := f.Group().NewPoint().ScalarMult(s.SigningShare, f.Group().Generator())
		pub.VerifyingShares[id.Data] = vs.Bytes()
	}
	return records, pub, nil
}

func (p *PublicKeyPackage) decode() (group.Point, map[string]group.Point, error) {
	g := participant.Protocol().Group()
	vk, err := g.NewPoint().SetBytes(p.VerifyingKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: verifying key: %w", frost.ErrDeserialization, err)
	}
	shares := make(map[string]group.Point, len(p.VerifyingShares))
	for hexID, data := range p.VerifyingShares {
		raw, err := hex.DecodeString(hexID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: identifier %q", frost.ErrDeserialization, hexID)
		}
		pt, err := g.NewPoint().SetBytes(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: verifying share %s: %w", frost.ErrDeserialization, hexID, err)
		}
		shares[string(raw)] = pt
	}
	return vk, shares, nil
}

func decodeShares(shares []participant.SignatureShare) ([]frost.SignerShare, error) {
	out := make([]frost.SignerShare, len(shares))
	for i, s := range shares {
		id, share, err := s.Decode()
		if err != nil {
			return nil, fmt.Errorf("signature share %d: %w", i, err)
		}
		out[i] = frost.SignerShare{Identifier: id, Share: share}
	}
	return out, nil
}

// Verify checks a signature against a serialized verifying key.
func Verify(message Message, sig Signature, verifyingKey []byte) error {
	f := participant.Protocol()
	vk, err := f.Group().NewPoint().SetBytes(verifyingKey)
	if err != nil {
		return fmt.Errorf("%w: verifying key: %w", frost.ErrDeserialization, err)
	}
	s, err := f.DecodeSignature(sig.Data)
	if err != nil {
		return err
	}
	if !f.Verify(message.Data, s, vk) {
		return frost.ErrInvalidSignature
	}
	return nil
}

var errNoShares = errors.New("coordinator: no signature shares")
