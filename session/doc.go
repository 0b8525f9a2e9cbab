// Package session provides a high-level API for FROST threshold signature
// ceremonies. It wraps the low-level primitives in the [frost] package with
// a simpler interface that handles round management and prevents common
// mistakes like nonce reuse.
//
// The session package is designed for application developers who want to
// integrate FROST without understanding every protocol detail. For full
// control over the protocol, use the [frost] package directly.
//
// # DKG Ceremony
//
// A distributed key generation (DKG) ceremony creates key shares for all
// participants. Each participant runs the same code independently:
//
//	// Create participant state
//	f, err := frost.New(frost.NewBabyJubjubBlake2b512())
//	if err != nil {
//		return err
//	}
//	p, err := session.NewParticipant(f, minSigners, maxSigners, myID)
//	if err != nil {
//		return err
//	}
//
//	// Generate round 1 messages
//	r1, err := p.GenerateRound1(rand.Reader, allIDs)
//	if err != nil {
//		return err
//	}
//
//	// Broadcast r1.Broadcast to all participants
//	// Send r1.PrivateShares[id] to each participant over secure channel
//
//	// After receiving messages from all other participants:
//	result, err := p.ProcessRound1(&session.Round1Input{
//		Broadcasts:    receivedBroadcasts,
//		PrivateShares: receivedShares,
//	})
//
//	// Store result.SecretShare securely
//
// # Signing
//
// Signing uses a session-based API that ensures nonces are never reused:
//
//	// Create a signing session (generates nonces internally)
//	sess, err := p.NewSigningSession(rand.Reader, message)
//	if err != nil {
//		return err
//	}
//
//	// Broadcast sess.Commitment() to other signers
//	// Collect commitments from other signers
//
//	// Produce signature share (consumes the session)
//	share, err := sess.Sign(allCommitments)
//	if err != nil {
//		return err
//	}
//
//	// Coordinator aggregates shares
//	sig, err := session.Aggregate(f, message, allCommitments, allShares,
//		result.VerifyingKey, result.VerifyingShares)
//
// The SigningSession is designed to be used exactly once. Calling Sign a
// second time returns [ErrSessionConsumed], preventing accidental nonce
// reuse which would compromise security. The byte-level API in package
// participant leaves this discipline to the caller.
//
// # Transport Agnostic
//
// This package does not handle network communication. You are responsible
// for distributing messages between participants using your preferred
// transport (TCP, HTTP, libp2p, etc.). The package only manages protocol
// state and message generation.
package session
