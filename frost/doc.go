// Package frost implements the FROST (Flexible Round-Optimized Schnorr Threshold)
// signature scheme of RFC 9591 over a pluggable [Ciphersuite].
//
// FROST is a threshold signature scheme that allows t-of-n participants to
// collaboratively generate a Schnorr signature without any single participant
// knowing the full private key.
//
// # Ciphersuites
//
//   - [Ed25519SHA512]: FROST(Ed25519, SHA-512). Aggregated signatures are
//     ordinary Ed25519 signatures.
//   - [Secp256k1SHA256]: FROST(secp256k1, SHA-256).
//   - [BabyJubjubBlake2b512]: Baby Jubjub with Blake2b-512, used for
//     re-randomized signing.
//
// # Key Generation
//
// Secret shares come either from [FROST.TrustedDealerKeygen] or from the
// distributed key generation in [FROST.NewDKGParticipant]:
//
//  1. Each participant generates a random polynomial and broadcasts commitments
//     to its coefficients using [DKGParticipant.Round1Broadcast].
//  2. Each participant sends private shares to all other participants using
//     [DKGParticipant.Round1PrivateSend].
//  3. Each participant verifies received shares against the broadcasted
//     commitments using [DKGParticipant.Round2ReceiveShare].
//  4. Each participant computes their secret share using [DKGParticipant.Finalize].
//
// A [SecretShare] is turned into a [KeyPackage] with [FROST.KeyPackage].
//
// # Threshold Signing
//
//  1. Each signer generates nonces and commitments using [FROST.Commit].
//  2. The coordinator collects the commitments into a [SigningPackage] with
//     [FROST.NewSigningPackage].
//  3. Each signer computes their signature share using [FROST.Sign], or
//     [FROST.SignRandomized] when the coordinator supplied a [Randomizer].
//  4. Signature shares are aggregated into a final signature using
//     [FROST.Aggregate] and checked with [FROST.Verify].
//
// # Example
//
//	f, _ := frost.New(frost.NewEd25519SHA512())
//	shares, groupKey, _ := f.TrustedDealerKeygen(rand.Reader, 2, 3)
//	kp1, _ := f.KeyPackage(shares[0])
//	kp2, _ := f.KeyPackage(shares[1])
//
//	nonces1, commit1, _ := f.Commit(rand.Reader, kp1.SigningShare)
//	nonces2, commit2, _ := f.Commit(rand.Reader, kp2.SigningShare)
//	pkg, _ := f.NewSigningPackage([]byte("hello"), []frost.SignerCommitments{
//	    {Identifier: kp1.Identifier, Commitments: commit1},
//	    {Identifier: kp2.Identifier, Commitments: commit2},
//	})
//
//	share1, _ := f.Sign(pkg, nonces1, kp1)
//	share2, _ := f.Sign(pkg, nonces2, kp2)
//	sig, _ := f.Aggregate(pkg, []frost.SignerShare{
//	    {Identifier: kp1.Identifier, Share: share1},
//	    {Identifier: kp2.Identifier, Share: share2},
//	}, groupKey, nil)
//
// # Encodings
//
// Nonces, commitments, secret shares and key packages encode as a version
// byte and a four-byte ciphersuite tag followed by fixed-width fields.
// Signing packages use deterministic CBOR. Every decoder is all-or-nothing
// and wraps [ErrDeserialization] on failure.
//
// # Security Considerations
//
// Nonces generated by [FROST.Commit] must never be reused. Signing two
// different packages with the same nonces reveals the signing share. The
// session package wraps nonces in a single-use session.
//
// The DKG has no proofs of knowledge and assumes all participants are
// honest during key generation.
package frost
