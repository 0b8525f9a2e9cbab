// Package bjj provides a Baby Jubjub elliptic curve implementation of the
// [group.Group] interface for use with FROST threshold signatures.
//
// Baby Jubjub is a twisted Edwards curve defined over the scalar field of
// BN254 (also known as alt_bn128). It is commonly used in zero-knowledge
// proof systems and privacy-preserving applications, which is why the
// re-randomizable FROST ciphersuite of this module is built on it.
//
// Point arithmetic comes from gnark-crypto; scalar arithmetic uses
// saferith so that operations on secret shares and nonces do not branch
// on secret data.
//
// # Curve Parameters
//
// Baby Jubjub is defined by the equation:
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2
//
// where a = 168700 and d = 168696 over the BN254 scalar field.
//
// The curve has a prime-order subgroup of size:
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// # Encodings
//
// Scalars are 32-byte big-endian integers below the subgroup order.
// Points use gnark-crypto's 32-byte compressed form; decoding rejects
// points outside the prime-order subgroup and the identity.
package bjj
