// Package secp256k1 implements [group.Group] for the secp256k1 curve using
// github.com/decred/dcrd/dcrec/secp256k1/v4.
//
// Scalars are 32-byte big-endian integers below the group order and
// points use the 33-byte SEC1 compressed encoding. secp256k1 has cofactor
// one, so decoding only has to check that the x coordinate lies on the
// curve.
package secp256k1
