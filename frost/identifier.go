package frost

import (
	"encoding/hex"

	"github.com/f3rmion/frostsigner/group"
)

// Identifier is a participant's nonzero position in the signing group.
type Identifier struct {
	s group.Scalar
}

// IdentifierFromUint16 returns the identifier with numeric value n.
func (f *FROST) IdentifierFromUint16(n uint16) (*Identifier, error) {
	if n == 0 {
		return nil, ErrInvalidIdentifier
	}
	return &Identifier{s: f.group.NewScalar().SetUint64(uint64(n))}, nil
}

// DeriveIdentifier hashes an arbitrary byte string, such as a user name,
// into an identifier.
func (f *FROST) DeriveIdentifier(data []byte) (*Identifier, error) {
	s := f.suite.HID(data)
	if s.IsZero() {
		return nil, ErrInvalidIdentifier
	}
	return &Identifier{s: s}, nil
}

// DecodeIdentifier parses a canonical nonzero scalar encoding.
func (f *FROST) DecodeIdentifier(data []byte) (*Identifier, error) {
	s, err := f.group.NewScalar().SetBytes(data)
	if err != nil {
		return nil, deserializationError("identifier", err)
	}
	if s.IsZero() {
		return nil, deserializationError("identifier", ErrInvalidIdentifier)
	}
	return &Identifier{s: s}, nil
}

// Scalar returns the identifier's scalar value. The result must not be
// modified.
func (id *Identifier) Scalar() group.Scalar { return id.s }

func (id *Identifier) Bytes() []byte { return id.s.Bytes() }

func (id *Identifier) Equal(other *Identifier) bool {
	return other != nil && id.s.Equal(other.s)
}

// String returns the hex encoding of the identifier.
func (id *Identifier) String() string {
	if id == nil || id.s == nil {
		return "<nil>"
	}
	return hex.EncodeToString(id.s.Bytes())
}
