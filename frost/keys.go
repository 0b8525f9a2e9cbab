package frost

import (
	"encoding/binary"
	"fmt"

	"github.com/f3rmion/frostsigner/group"
)

// SecretShare is a participant's share of the group secret as produced by
// key generation, together with the VSS commitment it can be checked
// against. It never leaves the participant.
type SecretShare struct {
	Identifier   *Identifier
	SigningShare group.Scalar

	// Commitment holds the commitments to the coefficients of the sharing
	// polynomial. Its length is the minimum number of signers and its first
	// element is the group verifying key.
	Commitment []group.Point
}

// KeyPackage is everything a participant needs to sign.
type KeyPackage struct {
	Identifier     *Identifier
	SigningShare   group.Scalar
	VerifyingShare group.Point
	VerifyingKey   group.Point
	MinSigners     uint16
}

// VerifySecretShare checks share*G == sum(C_k * id^k).
func (f *FROST) VerifySecretShare(s *SecretShare) error {
	if s.Identifier == nil || s.SigningShare == nil {
		return fmt.Errorf("%w: incomplete secret share", ErrInvalidShare)
	}
	if len(s.Commitment) < 2 || len(s.Commitment) > 0xffff {
		return fmt.Errorf("%w: commitment of length %d", ErrInvalidShare, len(s.Commitment))
	}
	lhs := f.group.NewPoint().ScalarMult(s.SigningShare, f.group.Generator())
	rhs := f.evalCommitment(s.Commitment, s.Identifier.s)
	if !lhs.Equal(rhs) {
		return ErrInvalidShare
	}
	return nil
}

// KeyPackage verifies s and derives the participant's key package from it.
func (f *FROST) KeyPackage(s *SecretShare) (*KeyPackage, error) {
	if err := f.VerifySecretShare(s); err != nil {
		return nil, err
	}
	return &KeyPackage{
		Identifier:     s.Identifier,
		SigningShare:   f.group.NewScalar().Set(s.SigningShare),
		VerifyingShare: f.group.NewPoint().ScalarMult(s.SigningShare, f.group.Generator()),
		VerifyingKey:   f.group.NewPoint().Set(s.Commitment[0]),
		MinSigners:     uint16(len(s.Commitment)),
	}, nil
}

// VerifyingShare returns the verifying share of id under a group
// commitment, which lets anyone holding the commitment check id's signature
// shares.
func (f *FROST) VerifyingShare(commitment []group.Point, id *Identifier) group.Point {
	return f.evalCommitment(commitment, id.s)
}

// VerifyKeyPackage checks that the signing share matches the verifying
// share.
func (f *FROST) VerifyKeyPackage(kp *KeyPackage) error {
	if kp.Identifier == nil || kp.SigningShare == nil || kp.VerifyingShare == nil || kp.VerifyingKey == nil {
		return fmt.Errorf("%w: incomplete key package", ErrInvalidShare)
	}
	if kp.MinSigners < 2 {
		return fmt.Errorf("%w: min signers %d", ErrInvalidShare, kp.MinSigners)
	}
	pub := f.group.NewPoint().ScalarMult(kp.SigningShare, f.group.Generator())
	if !pub.Equal(kp.VerifyingShare) {
		return ErrInvalidShare
	}
	return nil
}

// EncodeSecretShare returns header || id || share || u16 t || t points.
func (f *FROST) EncodeSecretShare(s *SecretShare) []byte {
	out := f.header()
	out = append(out, s.Identifier.Bytes()...)
	out = append(out, s.SigningShare.Bytes()...)
	out = binary.BigEndian.AppendUint16(out, uint16(len(s.Commitment)))
	for _, c := range s.Commitment {
		out = append(out, c.Bytes()...)
	}
	return out
}

// DecodeSecretShare parses and verifies a secret share.
func (f *FROST) DecodeSecretShare(data []byte) (*SecretShare, error) {
	r := f.newReader(data)
	s := &SecretShare{
		Identifier:   r.identifier(),
		SigningShare: r.scalar(),
	}
	n := int(r.uint16())
	for i := 0; i < n && r.err == nil; i++ {
		s.Commitment = append(s.Commitment, r.point())
	}
	if err := r.finish(); err != nil {
		return nil, deserializationError("secret share", err)
	}
	if err := f.VerifySecretShare(s); err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeKeyPackage returns header || id || share || verifying share ||
// verifying key || u16 min signers.
func (f *FROST) EncodeKeyPackage(kp *KeyPackage) []byte {
	out := f.header()
	out = append(out, kp.Identifier.Bytes()...)
	out = append(out, kp.SigningShare.Bytes()...)
	out = append(out, kp.VerifyingShare.Bytes()...)
	out = append(out, kp.VerifyingKey.Bytes()...)
	return binary.BigEndian.AppendUint16(out, kp.MinSigners)
}

// DecodeKeyPackage parses and verifies a key package.
func (f *FROST) DecodeKeyPackage(data []byte) (*KeyPackage, error) {
	r := f.newReader(data)
	kp := &KeyPackage{
		Identifier:     r.identifier(),
		SigningShare:   r.scalar(),
		VerifyingShare: r.point(),
		VerifyingKey:   r.point(),
		MinSigners:     r.uint16(),
	}
	if err := r.finish(); err != nil {
		return nil, deserializationError("key package", err)
	}
	if err := f.VerifyKeyPackage(kp); err != nil {
		return nil, err
	}
	return kp, nil
}
