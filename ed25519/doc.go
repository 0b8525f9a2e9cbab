// Package ed25519 implements [group.Group] for the edwards25519 curve on
// top of filippo.io/edwards25519.
//
// Scalars are 32-byte little-endian integers modulo
// l = 2^252 + 27742317777372353535851937790883648493 and points use the
// 32-byte compressed Edwards encoding of RFC 8032. Point decoding only
// accepts canonical encodings of non-identity points in the prime-order
// subgroup, as required for FROST(Ed25519, SHA-512) in RFC 9591.
package ed25519
