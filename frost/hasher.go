package frost

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/consensys/gnark-crypto/field/hash"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/frostsigner/bjj"
	"github.com/f3rmion/frostsigner/ed25519"
	"github.com/f3rmion/frostsigner/group"
	"github.com/f3rmion/frostsigner/secp256k1"
)

// Ciphersuite bundles a prime-order group with the hash functions FROST
// needs. Each hash is domain separated by the suite's context string.
type Ciphersuite interface {
	// Group returns the prime-order group the suite signs over.
	Group() group.Group

	// ContextString identifies the suite, e.g. "FROST-ED25519-SHA512-v1".
	ContextString() string

	// H1 derives a binding factor.
	H1(m []byte) group.Scalar

	// H2 derives the Schnorr challenge from R || Y || msg.
	H2(m []byte) group.Scalar

	// H3 derives a nonce.
	H3(m []byte) group.Scalar

	// H4 hashes the message for the binding factor input.
	H4(m []byte) []byte

	// H5 hashes the encoded commitment list.
	H5(m []byte) []byte

	// HID derives an identifier from arbitrary bytes.
	HID(m []byte) group.Scalar
}

// Ed25519SHA512 is FROST(Ed25519, SHA-512) from RFC 9591. Signatures it
// produces are valid Ed25519 signatures.
type Ed25519SHA512 struct {
	g ed25519.Ed25519
}

// NewEd25519SHA512 returns the FROST(Ed25519, SHA-512) ciphersuite.
func NewEd25519SHA512() *Ed25519SHA512 { return &Ed25519SHA512{} }

func (h *Ed25519SHA512) Group() group.Group { return &h.g }

func (h *Ed25519SHA512) ContextString() string { return "FROST-ED25519-SHA512-v1" }

func (h *Ed25519SHA512) hash(tag string, m []byte) []byte {
	hasher := sha512.New()
	hasher.Write([]byte(h.ContextString()))
	hasher.Write([]byte(tag))
	hasher.Write(m)
	return hasher.Sum(nil)
}

func (h *Ed25519SHA512) hashToScalar(tag string, m []byte) group.Scalar {
	return h.g.NewScalar().SetUniformBytes(h.hash(tag, m))
}

func (h *Ed25519SHA512) H1(m []byte) group.Scalar { return h.hashToScalar("rho", m) }

// H2 has no domain separation so that the challenge matches RFC 8032.
func (h *Ed25519SHA512) H2(m []byte) group.Scalar {
	digest := sha512.Sum512(m)
	return h.g.NewScalar().SetUniformBytes(digest[:])
}

func (h *Ed25519SHA512) H3(m []byte) group.Scalar { return h.hashToScalar("nonce", m) }

func (h *Ed25519SHA512) H4(m []byte) []byte { return h.hash("msg", m) }

func (h *Ed25519SHA512) H5(m []byte) []byte { return h.hash("com", m) }

func (h *Ed25519SHA512) HID(m []byte) group.Scalar { return h.hashToScalar("id", m) }

// BabyJubjubBlake2b512 implements FROST over Baby Jubjub with Blake2b-512.
// This is compatible with Ledger/iden3 FROST implementations and is the
// suite used for re-randomized signing.
//
// Domain separation format: prefix + tag + input
// Output is interpreted as little-endian before reducing mod curve order.
type BabyJubjubBlake2b512 struct {
	// Prefix is the domain separation prefix.
	// Default: "FROST-EDBABYJUJUB-BLAKE512-v1"
	Prefix string

	g bjj.BJJ
}

// NewBabyJubjubBlake2b512 returns the suite with the Ledger-compatible prefix.
func NewBabyJubjubBlake2b512() *BabyJubjubBlake2b512 {
	return &BabyJubjubBlake2b512{
		Prefix: "FROST-EDBABYJUJUB-BLAKE512-v1",
	}
}

func (h *BabyJubjubBlake2b512) Group() group.Group { return &h.g }

func (h *BabyJubjubBlake2b512) ContextString() string { return h.Prefix }

func (h *BabyJubjubBlake2b512) hash(tag string, m []byte) []byte {
	hasher, _ := blake2b.New512(nil)
	hasher.Write([]byte(h.Prefix))
	hasher.Write([]byte(tag))
	hasher.Write(m)
	return hasher.Sum(nil)
}

// hashToScalar hashes data and converts to a scalar.
// The 64-byte output is interpreted as little-endian before reducing mod order.
func (h *BabyJubjubBlake2b512) hashToScalar(tag string, m []byte) group.Scalar {
	digest := h.hash(tag, m)

	// Reverse bytes for little-endian interpretation
	reversed := make([]byte, len(digest))
	for i := 0; i < len(digest); i++ {
		reversed[i] = digest[len(digest)-1-i]
	}

	return h.g.NewScalar().SetUniformBytes(reversed)
}

func (h *BabyJubjubBlake2b512) H1(m []byte) group.Scalar { return h.hashToScalar("rho", m) }

func (h *BabyJubjubBlake2b512) H2(m []byte) group.Scalar { return h.hashToScalar("chal", m) }

func (h *BabyJubjubBlake2b512) H3(m []byte) group.Scalar { return h.hashToScalar("nonce", m) }

func (h *BabyJubjubBlake2b512) H4(m []byte) []byte { return h.hash("msg", m) }

func (h *BabyJubjubBlake2b512) H5(m []byte) []byte { return h.hash("com", m) }

func (h *BabyJubjubBlake2b512) HID(m []byte) group.Scalar { return h.hashToScalar("id", m) }

// Secp256k1SHA256 is FROST(secp256k1, SHA-256) from RFC 9591. Scalar
// hashes use hash_to_field from RFC 9380 with expand_message_xmd.
type Secp256k1SHA256 struct {
	g secp256k1.Secp256k1
}

// NewSecp256k1SHA256 returns the FROST(secp256k1, SHA-256) ciphersuite.
func NewSecp256k1SHA256() *Secp256k1SHA256 { return &Secp256k1SHA256{} }

func (h *Secp256k1SHA256) Group() group.Group { return &h.g }

func (h *Secp256k1SHA256) ContextString() string { return "FROST-secp256k1-SHA256-v1" }

// hashToField expands m to 48 bytes, which leaves a negligible bias after
// reduction modulo the 256-bit group order.
func (h *Secp256k1SHA256) hashToField(tag string, m []byte) group.Scalar {
	dst := []byte(h.ContextString() + tag)
	uniform, err := hash.ExpandMsgXmd(m, dst, 48)
	if err != nil {
		// Only reachable with a DST longer than 255 bytes.
		panic(err)
	}
	return h.g.NewScalar().SetUniformBytes(uniform)
}

func (h *Secp256k1SHA256) hash(tag string, m []byte) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(h.ContextString()))
	hasher.Write([]byte(tag))
	hasher.Write(m)
	return hasher.Sum(nil)
}

func (h *Secp256k1SHA256) H1(m []byte) group.Scalar { return h.hashToField("rho", m) }

func (h *Secp256k1SHA256) H2(m []byte) group.Scalar { return h.hashToField("chal", m) }

func (h *Secp256k1SHA256) H3(m []byte) group.Scalar { return h.hashToField("nonce", m) }

func (h *Secp256k1SHA256) H4(m []byte) []byte { return h.hash("msg", m) }

func (h *Secp256k1SHA256) H5(m []byte) []byte { return h.hash("com", m) }

func (h *Secp256k1SHA256) HID(m []byte) group.Scalar { return h.hashToField("id", m) }
