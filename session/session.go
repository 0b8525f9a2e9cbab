package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/f3rmion/frostsigner/frost"
	"github.com/f3rmion/frostsigner/group"
)

// Participant manages a single participant's state throughout DKG and signing
// ceremonies. Create instances using [NewParticipant].
type Participant struct {
	id         *frost.Identifier
	frost      *frost.FROST
	minSigners int
	maxSigners int
	keyPackage *frost.KeyPackage
	dkgState   *frost.DKGParticipant
	finalized  bool
	logger     zerolog.Logger
}

// DKGResult contains the output of a successful DKG ceremony.
type DKGResult struct {
	// SecretShare is this participant's share of the distributed key,
	// with the group commitment it verifies against. Store it securely.
	SecretShare *frost.SecretShare

	// KeyPackage is derived from SecretShare and is what signing uses.
	KeyPackage *frost.KeyPackage

	// VerifyingKey is the group key signatures verify under. It is the
	// same for all participants.
	VerifyingKey group.Point

	// VerifyingShares maps each participant's serialized identifier to its
	// verifying share, for checking individual signature shares.
	VerifyingShares map[string]group.Point
}

// Round1Output contains all messages generated during DKG round 1.
type Round1Output struct {
	// Broadcast is the public commitment that must be sent to all participants.
	Broadcast *frost.Round1Data

	// PrivateShares maps recipient identifier, as a uint16, to the private
	// share for it. Each share must be sent to its recipient over a secure,
	// authenticated channel.
	PrivateShares map[uint16]*frost.Round1PrivateData
}

// Round1Input contains all messages received during DKG round 1.
type Round1Input struct {
	// Broadcasts contains the public commitments from all participants
	// (including this participant's own broadcast).
	Broadcasts []*frost.Round1Data

	// PrivateShares contains the private shares sent TO this participant
	// from all other participants.
	PrivateShares []*frost.Round1PrivateData
}

// NewParticipant creates a new participant for FROST ceremonies.
//
// Parameters:
//   - f: The FROST instance, which fixes the ciphersuite
//   - minSigners: Minimum number of signers required (t)
//   - maxSigners: Total number of participants (n)
//   - id: This participant's identifier (1 to n)
//
// The returned Participant can be used for one DKG ceremony and then
// for multiple signing sessions.
func NewParticipant(f *frost.FROST, minSigners, maxSigners int, id uint16) (*Participant, error) {
	if id < 1 || int(id) > maxSigners {
		return nil, fmt.Errorf("participant ID must be between 1 and %d, got %d", maxSigners, id)
	}
	if f == nil {
		return nil, errors.New("nil FROST instance")
	}
	identifier, err := f.IdentifierFromUint16(id)
	if err != nil {
		return nil, err
	}

	return &Participant{
		id:         identifier,
		frost:      f,
		minSigners: minSigners,
		maxSigners: maxSigners,
		logger:     zerolog.Nop(),
	}, nil
}

// WithLogger sets the logger for this participant and the sessions it
// creates. Secret material is never logged.
func (p *Participant) WithLogger(l zerolog.Logger) *Participant {
	p.logger = l.With().Str("participant", p.id.String()).Logger()
	return p
}

// ID returns this participant's identifier.
func (p *Participant) ID() *frost.Identifier {
	return p.id
}

// KeyPackage returns this participant's key package after DKG completion.
// Returns nil if DKG has not been finalized.
func (p *Participant) KeyPackage() *frost.KeyPackage {
	return p.keyPackage
}

// FROST returns the underlying FROST instance for advanced use cases.
func (p *Participant) FROST() *frost.FROST {
	return p.frost
}

// GenerateRound1 generates all round 1 DKG messages.
//
// This creates:
//   - A public broadcast containing commitments to the secret polynomial
//   - Private shares for each other participant
//
// The broadcast should be sent to all participants. Each private share
// should be sent only to its intended recipient over a secure channel.
func (p *Participant) GenerateRound1(rng io.Reader, allParticipantIDs []uint16) (*Round1Output, error) {
	if p.dkgState != nil {
		return nil, errors.New("round 1 already generated")
	}

	dkg, err := p.frost.NewDKGParticipant(rng, p.id, p.minSigners, p.maxSigners)
	if err != nil {
		return nil, fmt.Errorf("failed to create DKG participant: %w", err)
	}

	privateShares := make(map[uint16]*frost.Round1PrivateData)
	for _, recipientID := range allParticipantIDs {
		recipient, err := p.frost.IdentifierFromUint16(recipientID)
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", recipientID, err)
		}
		if recipient.Equal(p.id) {
			continue
		}
		privateShares[recipientID] = dkg.Round1PrivateSend(recipient)
	}
	p.dkgState = dkg

	p.logger.Debug().Int("recipients", len(privateShares)).Msg("dkg: round 1 generated")
	return &Round1Output{
		Broadcast:     dkg.Round1Broadcast(),
		PrivateShares: privateShares,
	}, nil
}

// ProcessRound1 processes received round 1 messages and completes the DKG.
//
// This verifies all received shares against their sender's commitments,
// then computes the final key package. After this call, the participant
// is ready for signing operations.
//
// The input must contain:
//   - Broadcasts from ALL participants (including this one)
//   - Private shares from all OTHER participants
func (p *Participant) ProcessRound1(input *Round1Input) (*DKGResult, error) {
	if p.dkgState == nil {
		return nil, errors.New("must call GenerateRound1 before ProcessRound1")
	}
	if p.finalized {
		return nil, errors.New("DKG already finalized")
	}

	broadcastByID := make(map[string]*frost.Round1Data)
	for _, b := range input.Broadcasts {
		key := string(b.ID.Bytes())
		if _, exists := broadcastByID[key]; exists {
			return nil, fmt.Errorf("%w: broadcast from %s", frost.ErrDuplicateIdentifier, b.ID)
		}
		broadcastByID[key] = b
	}

	for _, share := range input.PrivateShares {
		senderBroadcast, ok := broadcastByID[string(share.FromID.Bytes())]
		if !ok {
			return nil, fmt.Errorf("missing broadcast from %s", share.FromID)
		}
		if err := p.dkgState.Round2ReceiveShare(share, senderBroadcast.Commitments); err != nil {
			p.logger.Warn().Err(err).Str("sender", share.FromID.String()).Msg("dkg: rejected share")
			return nil, fmt.Errorf("invalid share: %w", err)
		}
	}

	secretShare, err := p.dkgState.Finalize(input.Broadcasts)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize DKG: %w", err)
	}
	kp, err := p.frost.KeyPackage(secretShare)
	if err != nil {
		return nil, err
	}

	p.keyPackage = kp
	p.finalized = true
	p.dkgState = nil

	verifyingShares := make(map[string]group.Point, len(input.Broadcasts))
	for _, b := range input.Broadcasts {
		verifyingShares[string(b.ID.Bytes())] = p.frost.VerifyingShare(secretShare.Commitment, b.ID)
	}

	p.logger.Info().Msg("dkg: finalized")
	return &DKGResult{
		SecretShare:     secretShare,
		KeyPackage:      kp,
		VerifyingKey:    kp.VerifyingKey,
		VerifyingShares: verifyingShares,
	}, nil
}

// SetKeyPackage allows setting a previously-saved key package.
// Use this when restoring a participant from persistent storage.
func (p *Participant) SetKeyPackage(kp *frost.KeyPackage) error {
	if kp == nil {
		return errors.New("nil key package")
	}
	if err := p.frost.VerifyKeyPackage(kp); err != nil {
		return err
	}
	if !kp.Identifier.Equal(p.id) {
		return fmt.Errorf("%w: key package belongs to %s", frost.ErrInvalidIdentifier, kp.Identifier)
	}
	p.keyPackage = kp
	p.finalized = true
	return nil
}
