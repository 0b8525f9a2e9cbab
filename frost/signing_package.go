package frost

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"
)

// SignerCommitments pairs a participant's round-1 commitments with its
// identifier.
type SignerCommitments struct {
	Identifier  *Identifier
	Commitments *SigningCommitments
}

// SigningPackage is the message together with the commitments of every
// participating signer, ordered by identifier.
type SigningPackage struct {
	commitments []SignerCommitments
	message     []byte
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

type signingPackageWire struct {
	Header      []byte                 `cbor:"1,keyasint"`
	Commitments []signerCommitmentWire `cbor:"2,keyasint"`
	Message     []byte                 `cbor:"3,keyasint"`
}

type signerCommitmentWire struct {
	_           struct{} `cbor:",toarray"`
	Identifier  []byte
	Commitments []byte
}

// NewSigningPackage assembles a signing package. At least one commitment is
// required and identifiers must be distinct.
func (f *FROST) NewSigningPackage(message []byte, commitments []SignerCommitments) (*SigningPackage, error) {
	if len(commitments) == 0 {
		return nil, errors.New("frost: signing package needs at least one commitment")
	}
	sorted := make([]SignerCommitments, len(commitments))
	for i, c := range commitments {
		if c.Identifier == nil || c.Commitments == nil {
			return nil, errNilIdentifier
		}
		sorted[i] = c
	}
	slices.SortFunc(sorted, func(a, b SignerCommitments) int {
		return f.compareScalars(a.Identifier.s, b.Identifier.s)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Identifier.Equal(sorted[i-1].Identifier) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, sorted[i].Identifier)
		}
	}
	return &SigningPackage{
		commitments: sorted,
		message:     append([]byte{}, message...),
	}, nil
}

// Message returns the message to be signed.
func (p *SigningPackage) Message() []byte { return p.message }

// Commitments returns the signer commitments ordered by identifier.
func (p *SigningPackage) Commitments() []SignerCommitments { return p.commitments }

// SigningCommitments returns the commitments of the signer id.
func (p *SigningPackage) SigningCommitments(id *Identifier) (*SigningCommitments, bool) {
	for _, c := range p.commitments {
		if c.Identifier.Equal(id) {
			return c.Commitments, true
		}
	}
	return nil, false
}

// EncodeSigningPackage returns the deterministic CBOR encoding of p.
func (f *FROST) EncodeSigningPackage(p *SigningPackage) ([]byte, error) {
	wire := signingPackageWire{
		Header:      f.header(),
		Commitments: make([]signerCommitmentWire, len(p.commitments)),
		Message:     p.message,
	}
	if wire.Message == nil {
		wire.Message = []byte{}
	}
	for i, c := range p.commitments {
		wire.Commitments[i] = signerCommitmentWire{
			Identifier:  c.Identifier.Bytes(),
			Commitments: f.EncodeSigningCommitments(c.Commitments),
		}
	}
	return encMode.Marshal(&wire)
}

// DecodeSigningPackage parses a signing package. The input must be the
// exact deterministic encoding of its contents with nothing after it, and
// commitments must be in strictly increasing identifier order.
func (f *FROST) DecodeSigningPackage(data []byte) (*SigningPackage, error) {
	var wire signingPackageWire
	if err := decMode.Unmarshal(data, &wire); err != nil {
		return nil, deserializationError("signing package", err)
	}
	// Unmarshal stops after the first data item.
	canonical, err := encMode.Marshal(&wire)
	if err != nil || !bytes.Equal(canonical, data) {
		return nil, deserializationError("signing package", errors.New("trailing or non-canonical encoding"))
	}
	if err := f.checkHeader(wire.Header); err != nil {
		return nil, deserializationError("signing package", err)
	}
	if len(wire.Header) != headerLen {
		return nil, deserializationError("signing package", errors.New("malformed header"))
	}
	if len(wire.Commitments) == 0 {
		return nil, deserializationError("signing package", errors.New("no commitments"))
	}

	p := &SigningPackage{
		commitments: make([]SignerCommitments, len(wire.Commitments)),
		message:     wire.Message,
	}
	if p.message == nil {
		p.message = []byte{}
	}
	for i, c := range wire.Commitments {
		id, err := f.DecodeIdentifier(c.Identifier)
		if err != nil {
			return nil, fmt.Errorf("signing package: %w", err)
		}
		commitments, err := f.DecodeSigningCommitments(c.Commitments)
		if err != nil {
			return nil, fmt.Errorf("signing package: %w", err)
		}
		if i > 0 && f.compareScalars(p.commitments[i-1].Identifier.s, id.s) >= 0 {
			return nil, deserializationError("signing package", errors.New("commitments not ordered by identifier"))
		}
		p.commitments[i] = SignerCommitments{Identifier: id, Commitments: commitments}
	}
	return p, nil
}
