package session

import (
	"encoding/hex"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/f3rmion/frostsigner/frost"
	"github.com/f3rmion/frostsigner/group"
)

// ErrSessionConsumed is returned when Sign is called on a session that has
// already produced, or failed to produce, a signature share.
var ErrSessionConsumed = errors.New("session already consumed: nonce reuse prevented")

// SigningSession manages a single signing operation with built-in nonce safety.
// Each session can only be used once; attempting to sign twice returns an error.
//
// Create sessions using [Participant.NewSigningSession].
type SigningSession struct {
	mu          sync.Mutex
	frost       *frost.FROST
	keyPackage  *frost.KeyPackage
	message     []byte
	nonces      *frost.SigningNonces
	commitments *frost.SigningCommitments
	consumed    bool
	logger      zerolog.Logger
}

// NewSigningSession creates a new signing session for the given message.
//
// This generates fresh nonces internally. The session must be used exactly
// once - calling Sign a second time will return an error.
//
// The participant must have completed DKG before creating signing sessions.
func (p *Participant) NewSigningSession(rng io.Reader, message []byte) (*SigningSession, error) {
	if p.keyPackage == nil {
		return nil, errors.New("DKG not complete: no key package available")
	}

	nonces, commitments, err := p.frost.Commit(rng, p.keyPackage.SigningShare)
	if err != nil {
		return nil, err
	}

	// Copy message to prevent external modification
	msgCopy := make([]byte, len(message))
	copy(msgCopy, message)

	logger := p.logger.With().Str("session", fingerprint(p.frost, commitments)).Logger()
	logger.Debug().Msg("signing session opened")

	return &SigningSession{
		frost:       p.frost,
		keyPackage:  p.keyPackage,
		message:     msgCopy,
		nonces:      nonces,
		commitments: commitments,
		logger:      logger,
	}, nil
}

// fingerprint is a short BLAKE3 digest of the session's public commitments.
func fingerprint(f *frost.FROST, c *frost.SigningCommitments) string {
	digest := blake3.Sum256(f.EncodeSigningCommitments(c))
	return hex.EncodeToString(digest[:8])
}

// Commitment returns the public commitment that must be broadcast to other
// signers, tagged with this participant's identifier.
func (s *SigningSession) Commitment() frost.SignerCommitments {
	return frost.SignerCommitments{
		Identifier:  s.keyPackage.Identifier,
		Commitments: s.commitments,
	}
}

// Message returns the message being signed.
func (s *SigningSession) Message() []byte {
	return s.message
}

// Sign produces a signature share for this session.
//
// The allCommitments slice must contain commitments from all participating
// signers, including this participant's own commitment.
//
// This method consumes the session. Calling Sign a second time returns
// an error to prevent nonce reuse, which would compromise security.
//
// After Sign returns (successfully or not), the internal nonces are dropped.
func (s *SigningSession) Sign(allCommitments []frost.SignerCommitments) (*frost.SignatureShare, error) {
	return s.sign(allCommitments, nil)
}

// SignRandomized is Sign under the verifying key re-randomized by rnd.
func (s *SigningSession) SignRandomized(allCommitments []frost.SignerCommitments, rnd *frost.Randomizer) (*frost.SignatureShare, error) {
	if rnd == nil {
		return nil, frost.ErrInvalidRandomizer
	}
	return s.sign(allCommitments, rnd)
}

func (s *SigningSession) sign(allCommitments []frost.SignerCommitments, rnd *frost.Randomizer) (*frost.SignatureShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumed {
		s.logger.Warn().Msg("sign called on consumed session")
		return nil, ErrSessionConsumed
	}

	// Mark as consumed immediately, before any operations that might fail
	s.consumed = true
	defer s.zeroNonces()

	pkg, err := s.frost.NewSigningPackage(s.message, allCommitments)
	if err != nil {
		return nil, err
	}
	if _, ok := pkg.SigningCommitments(s.keyPackage.Identifier); !ok {
		return nil, errors.New("own commitment not found in commitment list")
	}

	var share *frost.SignatureShare
	if rnd != nil {
		share, err = s.frost.SignRandomized(pkg, s.nonces, s.keyPackage, rnd)
	} else {
		share, err = s.frost.Sign(pkg, s.nonces, s.keyPackage)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("signing failed")
		return nil, err
	}
	s.logger.Debug().Int("signers", len(allCommitments)).Msg("signature share produced")
	return share, nil
}

// zeroNonces drops the secret nonces so they cannot be used again.
// This is a best-effort cleanup; Go doesn't guarantee memory zeroing.
func (s *SigningSession) zeroNonces() {
	s.nonces = nil
}

// IsConsumed returns true if this session has already been used for signing.
func (s *SigningSession) IsConsumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// Aggregate combines signature shares into a final signature.
//
// This is typically called by a coordinator after collecting shares from
// all participating signers.
//
// Parameters:
//   - f: The FROST instance (must match the one used for signing)
//   - message: The message that was signed
//   - commitments: All signing commitments from participants
//   - shares: All signature shares from participants
//   - verifyingKey: The group key
//   - verifyingShares: Per-participant verifying shares, used to name a
//     signer whose share is invalid
func Aggregate(
	f *frost.FROST,
	message []byte,
	commitments []frost.SignerCommitments,
	shares []frost.SignerShare,
	verifyingKey group.Point,
	verifyingShares map[string]group.Point,
) (*frost.Signature, error) {
	if len(shares) == 0 {
		return nil, errors.New("no signature shares provided")
	}
	if len(commitments) == 0 {
		return nil, errors.New("no commitments provided")
	}
	if len(shares) != len(commitments) {
		return nil, errors.New("number of shares must match number of commitments")
	}

	pkg, err := f.NewSigningPackage(message, commitments)
	if err != nil {
		return nil, err
	}
	return f.Aggregate(pkg, shares, verifyingKey, verifyingShares)
}

// Verify checks whether a signature is valid for the given message and group key.
//
// Returns nil if the signature is valid, or an error describing why it's invalid.
func Verify(f *frost.FROST, message []byte, sig *frost.Signature, verifyingKey group.Point) error {
	if !f.Verify(message, sig, verifyingKey) {
		return frost.ErrInvalidSignature
	}
	return nil
}

// QuickSign performs a complete signing operation when all key packages are
// local.
//
// This is useful for testing or single-machine threshold setups where all
// participants are in the same process. For distributed signing, use
// [SigningSession] instead.
//
// The signers must contain at least MinSigners key packages.
func QuickSign(
	f *frost.FROST,
	rng io.Reader,
	signers []*frost.KeyPackage,
	message []byte,
) (*frost.Signature, error) {
	if len(signers) == 0 {
		return nil, errors.New("no key packages provided")
	}

	// Round 1: Generate nonces and commitments
	nonces := make([]*frost.SigningNonces, len(signers))
	commitments := make([]frost.SignerCommitments, len(signers))
	verifyingShares := make(map[string]group.Point, len(signers))

	for i, kp := range signers {
		n, c, err := f.Commit(rng, kp.SigningShare)
		if err != nil {
			return nil, err
		}
		nonces[i] = n
		commitments[i] = frost.SignerCommitments{Identifier: kp.Identifier, Commitments: c}
		verifyingShares[string(kp.Identifier.Bytes())] = kp.VerifyingShare
	}

	pkg, err := f.NewSigningPackage(message, commitments)
	if err != nil {
		return nil, err
	}

	// Round 2: Generate signature shares
	shares := make([]frost.SignerShare, len(signers))
	for i, kp := range signers {
		share, err := f.Sign(pkg, nonces[i], kp)
		if err != nil {
			return nil, err
		}
		shares[i] = frost.SignerShare{Identifier: kp.Identifier, Share: share}
	}

	return f.Aggregate(pkg, shares, signers[0].VerifyingKey, verifyingShares)
}
