package frost

import (
	"errors"
	"fmt"
)

var (
	// ErrDeserialization is wrapped by every decoding failure.
	ErrDeserialization = errors.New("frost: deserialization error")

	// ErrUnknownCiphersuite reports an encoding produced under a different
	// ciphersuite than the one decoding it.
	ErrUnknownCiphersuite = errors.New("frost: unknown ciphersuite")

	ErrInvalidIdentifier = errors.New("frost: invalid identifier")

	// ErrInvalidShare reports a secret share or key package whose signing
	// share does not match its public commitment.
	ErrInvalidShare = errors.New("frost: invalid secret share")

	// ErrMissingCommitment reports a signing package without the signer's
	// own commitment.
	ErrMissingCommitment = errors.New("frost: signer commitment missing from signing package")

	// ErrIncorrectCommitment reports a signing package whose commitment for
	// the signer differs from the one derived from its nonces.
	ErrIncorrectCommitment = errors.New("frost: signer commitment does not match nonces")

	ErrNotEnoughCommitments  = errors.New("frost: signing package has fewer commitments than min signers")
	ErrDuplicateIdentifier   = errors.New("frost: duplicate identifier")
	ErrInvalidRandomizer     = errors.New("frost: invalid randomizer")
	ErrInvalidSignatureShare = errors.New("frost: invalid signature share")
	ErrInvalidSignature      = errors.New("frost: invalid signature")
	ErrInvalidThreshold      = errors.New("frost: invalid threshold parameters")
)

var errNilIdentifier = errors.New("frost: nil identifier")

func deserializationError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDeserialization, what, err)
}
