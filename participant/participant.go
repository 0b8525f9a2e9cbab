package participant

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/frostsigner/frost"
)

// ParticipantIdentifier is the hex encoding of a serialized identifier.
type ParticipantIdentifier struct {
	Data string `json:"data"`
}

// SecretKeyShare is a participant's secret share as issued by key
// generation. It must never leave the participant.
type SecretKeyShare struct {
	Identifier ParticipantIdentifier `json:"identifier"`
	Data       []byte                `json:"data"`
}

// KeyPackage is the key material a participant signs with.
type KeyPackage struct {
	Identifier ParticipantIdentifier `json:"identifier"`
	Data       []byte                `json:"data"`
}

// SigningNonces is a serialized single-use nonce pair. Passing the same
// value to Sign twice exposes the signing share.
type SigningNonces struct {
	Data []byte `json:"data"`
}

// SigningCommitments is the public commitment to a nonce pair, tagged with
// its owner.
type SigningCommitments struct {
	Identifier ParticipantIdentifier `json:"identifier"`
	Data       []byte                `json:"data"`
}

// FirstRoundCommitment is the output of Commit. Nonces stay with the
// participant; Commitments go to the coordinator.
type FirstRoundCommitment struct {
	Nonces      SigningNonces      `json:"nonces"`
	Commitments SigningCommitments `json:"commitments"`
}

// SigningPackage is the serialized package assembled by the coordinator.
type SigningPackage struct {
	Data []byte `json:"data"`
}

// SignatureShare is a participant's serialized signature share.
type SignatureShare struct {
	Identifier ParticipantIdentifier `json:"identifier"`
	Data       []byte                `json:"data"`
}

var (
	protocol *frost.FROST
	logger   = zerolog.Nop()
)

func init() {
	var err error
	if protocol, err = frost.New(newCiphersuite()); err != nil {
		panic(err)
	}
}

// Protocol returns the FROST instance for the ciphersuite this package was
// built with.
func Protocol() *frost.FROST { return protocol }

// SetLogger sets the logger used by this package. The default discards
// everything. Secret material is never logged.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "participant").Logger()
}

// fingerprint is a short digest of public data for log correlation.
func fingerprint(data []byte) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:8])
}

// NewParticipantIdentifier wraps an identifier.
func NewParticipantIdentifier(id *frost.Identifier) ParticipantIdentifier {
	return ParticipantIdentifier{Data: hex.EncodeToString(id.Bytes())}
}

// IdentifierFromUint16 returns the record for the numeric identifier n.
func IdentifierFromUint16(n uint16) (ParticipantIdentifier, error) {
	id, err := protocol.IdentifierFromUint16(n)
	if err != nil {
		return ParticipantIdentifier{}, err
	}
	return NewParticipantIdentifier(id), nil
}

// Identifier decodes the record.
func (p ParticipantIdentifier) Identifier() (*frost.Identifier, error) {
	raw, err := hex.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: identifier: %w", frost.ErrDeserialization, err)
	}
	return protocol.DecodeIdentifier(raw)
}

// checkOwner fails unless record names the same identifier as decoded.
// An empty record identifier is accepted.
func checkOwner(record ParticipantIdentifier, decoded *frost.Identifier) error {
	if record.Data == "" {
		return nil
	}
	id, err := record.Identifier()
	if err != nil {
		return err
	}
	if !id.Equal(decoded) {
		return fmt.Errorf("%w: record is tagged %s but encodes %s", frost.ErrInvalidIdentifier, id, decoded)
	}
	return nil
}

func (s SecretKeyShare) decode() (*frost.SecretShare, error) {
	share, err := protocol.DecodeSecretShare(s.Data)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(s.Identifier, share.Identifier); err != nil {
		return nil, err
	}
	return share, nil
}

// IntoKeyPackage verifies the share and derives its key package.
func (s SecretKeyShare) IntoKeyPackage() (KeyPackage, error) {
	share, err := s.decode()
	if err != nil {
		return KeyPackage{}, err
	}
	kp, err := protocol.KeyPackage(share)
	if err != nil {
		return KeyPackage{}, err
	}
	return KeyPackage{
		Identifier: NewParticipantIdentifier(kp.Identifier),
		Data:       protocol.EncodeKeyPackage(kp),
	}, nil
}

func (k KeyPackage) decode() (*frost.KeyPackage, error) {
	kp, err := protocol.DecodeKeyPackage(k.Data)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(k.Identifier, kp.Identifier); err != nil {
		return nil, err
	}
	return kp, nil
}

func newSigningNonces(n *frost.SigningNonces) (SigningNonces, error) {
	if n == nil || n.Commitments == nil {
		return SigningNonces{}, errors.New("incomplete nonces")
	}
	return SigningNonces{Data: protocol.EncodeSigningNonces(n)}, nil
}

func newSigningCommitments(id *frost.Identifier, c *frost.SigningCommitments) (SigningCommitments, error) {
	if id == nil || c == nil {
		return SigningCommitments{}, errors.New("incomplete commitments")
	}
	return SigningCommitments{
		Identifier: NewParticipantIdentifier(id),
		Data:       protocol.EncodeSigningCommitments(c),
	}, nil
}

// Decode parses the commitments and their owner.
func (c SigningCommitments) Decode() (*frost.Identifier, *frost.SigningCommitments, error) {
	id, err := c.Identifier.Identifier()
	if err != nil {
		return nil, nil, err
	}
	commitments, err := protocol.DecodeSigningCommitments(c.Data)
	if err != nil {
		return nil, nil, err
	}
	return id, commitments, nil
}

// Decode parses the share. Only the first scalar-length bytes of Data are
// read.
func (s SignatureShare) Decode() (*frost.Identifier, *frost.SignatureShare, error) {
	id, err := s.Identifier.Identifier()
	if err != nil {
		return nil, nil, err
	}
	n := protocol.Group().ScalarLen()
	if len(s.Data) < n {
		return nil, nil, fmt.Errorf("%w: signature share of %d bytes", frost.ErrDeserialization, len(s.Data))
	}
	share, err := protocol.DecodeSignatureShare(s.Data[:n])
	if err != nil {
		return nil, nil, err
	}
	return id, share, nil
}

// Commit runs round one for the holder of secretShare: it draws a fresh
// nonce pair and returns it with the matching commitments. The commitments
// are tagged with the identifier recovered from the share.
func Commit(secretShare SecretKeyShare) (*FirstRoundCommitment, error) {
	share, err := secretShare.decode()
	if err != nil {
		logger.Warn().Err(err).Msg("round 1: invalid key package")
		return nil, round1Error(Round1InvalidKeyPackage)
	}
	kp, err := protocol.KeyPackage(share)
	if err != nil {
		logger.Warn().Err(err).Msg("round 1: invalid key package")
		return nil, round1Error(Round1InvalidKeyPackage)
	}
	return commit(kp)
}

func commit(kp *frost.KeyPackage) (*FirstRoundCommitment, error) {
	nonces, commitments, err := protocol.Commit(rand.Reader, kp.SigningShare)
	if err != nil {
		logger.Warn().Err(err).Msg("round 1: nonce generation failed")
		return nil, round1Error(Round1NonceSerialization)
	}
	nonceRecord, err := newSigningNonces(nonces)
	if err != nil {
		return nil, round1Error(Round1NonceSerialization)
	}
	commitmentRecord, err := newSigningCommitments(kp.Identifier, commitments)
	if err != nil {
		return nil, round1Error(Round1CommitmentSerialization)
	}

	logger.Debug().
		Str("identifier", kp.Identifier.String()).
		Str("commitment", fingerprint(commitmentRecord.Data)).
		Msg("round 1: commitment produced")

	return &FirstRoundCommitment{
		Nonces:      nonceRecord,
		Commitments: commitmentRecord,
	}, nil
}

// Preprocess runs Commit n times concurrently, for a participant that
// publishes commitments ahead of signing requests. Every returned nonce
// pair is independent and single-use.
func Preprocess(ctx context.Context, secretShare SecretKeyShare, n int) ([]FirstRoundCommitment, error) {
	if n <= 0 {
		return nil, fmt.Errorf("participant: preprocess count must be positive, got %d", n)
	}
	share, err := secretShare.decode()
	if err != nil {
		return nil, round1Error(Round1InvalidKeyPackage)
	}
	kp, err := protocol.KeyPackage(share)
	if err != nil {
		return nil, round1Error(Round1InvalidKeyPackage)
	}

	out := make([]FirstRoundCommitment, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range out {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := commit(kp)
			if err != nil {
				return err
			}
			out[i] = *c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeRound2 decodes the common Sign inputs in order: signing package,
// nonces, key package.
func decodeRound2(pkg SigningPackage, nonces SigningNonces, keyPackage KeyPackage) (
	*frost.SigningPackage, *frost.SigningNonces, *frost.KeyPackage, error,
) {
	signingPackage, err := protocol.DecodeSigningPackage(pkg.Data)
	if err != nil {
		logger.Warn().Err(err).Msg("round 2: invalid signing package")
		return nil, nil, nil, round2Error(Round2SigningPackageDeserialization)
	}
	n, err := protocol.DecodeSigningNonces(nonces.Data)
	if err != nil {
		logger.Warn().Err(err).Msg("round 2: invalid nonces")
		return nil, nil, nil, round2Error(Round2NonceSerialization)
	}
	kp, err := keyPackage.decode()
	if err != nil {
		logger.Warn().Err(err).Msg("round 2: invalid key package")
		return nil, nil, nil, round2Error(Round2InvalidKeyPackage)
	}
	return signingPackage, n, kp, nil
}

func newSignatureShare(kp *frost.KeyPackage, share *frost.SignatureShare, err error) (*SignatureShare, error) {
	if err != nil {
		logger.Warn().Err(err).Str("identifier", kp.Identifier.String()).Msg("round 2: signing failed")
		return nil, signingFailed(err)
	}
	logger.Debug().Str("identifier", kp.Identifier.String()).Msg("round 2: signature share produced")
	return &SignatureShare{
		Identifier: NewParticipantIdentifier(kp.Identifier),
		Data:       share.Bytes(),
	}, nil
}
