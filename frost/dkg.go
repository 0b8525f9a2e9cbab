package frost

import (
	"fmt"
	"io"

	"github.com/f3rmion/frostsigner/group"
)

// Round1Data is broadcast by each participant in round 1.
type Round1Data struct {
	ID          *Identifier   // participant identifier
	Commitments []group.Point // commitments to polynomial coefficients
}

// Round1PrivateData is sent privately to each participant.
type Round1PrivateData struct {
	FromID *Identifier  // sender's ID
	ToID   *Identifier  // recipient's ID
	Share  group.Scalar // polynomial evaluation for recipient
}

// DKGParticipant holds state during DKG.
type DKGParticipant struct {
	f              *FROST
	id             *Identifier
	minSigners     int
	maxSigners     int
	coefficients   []group.Scalar          // our secret polynomial
	commitments    []group.Point           // public commitments
	receivedShares map[string]group.Scalar // shares from others
	received       map[string][]group.Point
}

// NewDKGParticipant creates a participant for a minSigners-of-maxSigners
// DKG.
func (f *FROST) NewDKGParticipant(r io.Reader, id *Identifier, minSigners, maxSigners int) (*DKGParticipant, error) {
	if err := f.validateThreshold(minSigners, maxSigners); err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errNilIdentifier
	}

	// Generate random polynomial of degree t-1
	coeffs := make([]group.Scalar, minSigners)
	for i := 0; i < minSigners; i++ {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}

	// Compute commitments: C_i = coeffs[i] * G
	commits := make([]group.Point, minSigners)
	for i, c := range coeffs {
		commits[i] = f.group.NewPoint().ScalarMult(c, f.group.Generator())
	}

	return &DKGParticipant{
		f:              f,
		id:             id,
		minSigners:     minSigners,
		maxSigners:     maxSigners,
		coefficients:   coeffs,
		commitments:    commits,
		receivedShares: make(map[string]group.Scalar),
		received:       make(map[string][]group.Point),
	}, nil
}

// Identifier returns the participant's identifier.
func (p *DKGParticipant) Identifier() *Identifier { return p.id }

// Round1Broadcast returns data to broadcast to all participants.
func (p *DKGParticipant) Round1Broadcast() *Round1Data {
	return &Round1Data{
		ID:          p.id,
		Commitments: p.commitments,
	}
}

// Round1PrivateSend returns the share to send privately to recipient.
func (p *DKGParticipant) Round1PrivateSend(recipient *Identifier) *Round1PrivateData {
	return &Round1PrivateData{
		FromID: p.id,
		ToID:   recipient,
		Share:  p.f.evalPolynomial(p.coefficients, recipient.s),
	}
}

// Round2ReceiveShare verifies and stores a received share.
func (p *DKGParticipant) Round2ReceiveShare(data *Round1PrivateData, senderCommitments []group.Point) error {
	if !data.ToID.Equal(p.id) {
		return fmt.Errorf("%w: share addressed to %s", ErrInvalidIdentifier, data.ToID)
	}
	if len(senderCommitments) != p.minSigners {
		return fmt.Errorf("%w: sender %s committed to %d coefficients", ErrInvalidShare, data.FromID, len(senderCommitments))
	}

	// Verify: share * G == sum(commitments[i] * recipientID^i)
	lhs := p.f.group.NewPoint().ScalarMult(data.Share, p.f.group.Generator())
	rhs := p.f.evalCommitment(senderCommitments, data.ToID.s)
	if !lhs.Equal(rhs) {
		return fmt.Errorf("%w: from participant %s", ErrInvalidShare, data.FromID)
	}

	// Store the share
	key := string(data.FromID.Bytes())
	p.receivedShares[key] = data.Share
	p.received[key] = senderCommitments
	return nil
}

// Finalize computes the final secret share after receiving all shares.
// The returned share carries the sum of all participants' commitments, so
// it verifies like a dealer-issued share.
func (p *DKGParticipant) Finalize(allBroadcasts []*Round1Data) (*SecretShare, error) {
	if len(p.receivedShares) != p.maxSigners-1 {
		return nil, fmt.Errorf("frost: received %d shares, want %d", len(p.receivedShares), p.maxSigners-1)
	}
	g := p.f.group

	// Sum all received shares (including our own)
	secretKey := p.f.evalPolynomial(p.coefficients, p.id.s)
	for _, share := range p.receivedShares {
		secretKey = g.NewScalar().Add(secretKey, share)
	}

	// Sum commitments coefficient-wise
	commitment := make([]group.Point, p.minSigners)
	for k := range commitment {
		commitment[k] = g.NewPoint()
	}
	for _, broadcast := range allBroadcasts {
		if len(broadcast.Commitments) != p.minSigners {
			return nil, fmt.Errorf("%w: broadcast from %s", ErrInvalidShare, broadcast.ID)
		}
		if key := string(broadcast.ID.Bytes()); !broadcast.ID.Equal(p.id) {
			verified, ok := p.received[key]
			if !ok {
				return nil, fmt.Errorf("%w: no share from %s", ErrInvalidShare, broadcast.ID)
			}
			if !equalCommitments(verified, broadcast.Commitments) {
				return nil, fmt.Errorf("%w: broadcast from %s differs from the commitments its share was verified against", ErrInvalidShare, broadcast.ID)
			}
		}
		for k, c := range broadcast.Commitments {
			commitment[k] = g.NewPoint().Add(commitment[k], c)
		}
	}

	share := &SecretShare{
		Identifier:   p.id,
		SigningShare: secretKey,
		Commitment:   commitment,
	}
	if err := p.f.VerifySecretShare(share); err != nil {
		return nil, err
	}
	return share, nil
}

func equalCommitments(a, b []group.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
