package participant

import "fmt"

// Round1ErrorKind enumerates the ways Commit can fail.
type Round1ErrorKind int

const (
	// Round1InvalidKeyPackage means the secret key share failed to decode
	// or did not verify against its commitment.
	Round1InvalidKeyPackage Round1ErrorKind = iota + 1
	// Round1NonceSerialization means the nonces could not be produced or
	// encoded.
	Round1NonceSerialization
	// Round1CommitmentSerialization means the commitments could not be
	// encoded.
	Round1CommitmentSerialization
)

func (k Round1ErrorKind) String() string {
	switch k {
	case Round1InvalidKeyPackage:
		return "provided key package is invalid"
	case Round1NonceSerialization:
		return "nonce could not be serialized"
	case Round1CommitmentSerialization:
		return "commitment could not be serialized"
	default:
		return fmt.Sprintf("Round1ErrorKind(%d)", int(k))
	}
}

// Round1Error is the only error type returned by Commit.
type Round1Error struct {
	Kind Round1ErrorKind
}

func (e *Round1Error) Error() string {
	return "participant: " + e.Kind.String()
}

// Round2ErrorKind enumerates the ways Sign can fail.
type Round2ErrorKind int

const (
	Round2InvalidKeyPackage Round2ErrorKind = iota + 1
	Round2NonceSerialization
	Round2CommitmentSerialization
	Round2SigningPackageDeserialization
	// Round2SigningFailed means the signing computation rejected its
	// inputs. The error's Message says why and is meant for humans only.
	Round2SigningFailed
)

var round2KindNames = map[Round2ErrorKind]string{
	Round2InvalidKeyPackage:             "provided key package is invalid",
	Round2NonceSerialization:            "nonce could not be serialized",
	Round2CommitmentSerialization:       "commitment could not be serialized",
	Round2SigningPackageDeserialization: "could not deserialize signing package",
	Round2SigningFailed:                 "failed to sign message",
}

func (k Round2ErrorKind) String() string {
	if name, ok := round2KindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Round2ErrorKind(%d)", int(k))
}

// Round2Error is the only error type returned by Sign. Message is set for
// Round2SigningFailed only.
type Round2Error struct {
	Kind    Round2ErrorKind
	Message string
}

func (e *Round2Error) Error() string {
	if e.Kind == Round2SigningFailed {
		return fmt.Sprintf("participant: %s with error: %q", e.Kind, e.Message)
	}
	return "participant: " + e.Kind.String()
}

func round1Error(kind Round1ErrorKind) error {
	return &Round1Error{Kind: kind}
}

func round2Error(kind Round2ErrorKind) error {
	return &Round2Error{Kind: kind}
}

func signingFailed(err error) error {
	return &Round2Error{Kind: Round2SigningFailed, Message: err.Error()}
}
