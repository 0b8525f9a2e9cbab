// Package participant is the signer side of two-round FROST signing at the
// byte level: every input and output is a serialized record that can cross
// a process or language boundary.
//
// [Commit] turns a secret key share into a single-use nonce pair and the
// commitments to publish. Sign turns a signing package, those nonces and a
// key package into a signature share. Failures are reported only as
// [*Round1Error] and [*Round2Error], whose kinds form closed sets.
//
// The ciphersuite is fixed at build time. By default the package signs with
// FROST(Ed25519, SHA-512) and Sign takes three arguments. Built with
//
//	go build -tags rerandomized
//
// it signs with the Baby Jubjub Blake2b-512 suite, Sign takes a fourth
// Randomizer argument, and Round2InvalidRandomizer joins the error kinds.
//
// Nonces are not consumed by Sign; callers must discard them after use.
// The session package offers a single-use wrapper.
package participant
