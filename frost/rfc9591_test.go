package frost

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/frostsigner/group"
)

// signerVector holds the per-participant values of an RFC 9591 Appendix E
// vector. Empty fields are not checked.
type signerVector struct {
	id                uint16
	share             string
	hidingRandomness  string
	bindingRandomness string
	hidingNonce       string
	bindingNonce      string
	hidingCommitment  string
	bindingCommitment string
	bindingFactor     string
	sigShare          string
}

type rfcVector struct {
	suite          Ciphersuite
	groupSecretKey string
	groupPublicKey string
	coefficient    string
	message        string
	signers        []signerVector
	signature      string
}

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func vectorScalar(t *testing.T, g group.Group, s string) group.Scalar {
	t.Helper()
	k, err := g.NewScalar().SetBytes(unhex(t, s))
	require.NoError(t, err)
	return k
}

func assertHex(t *testing.T, want string, got []byte, what string) {
	t.Helper()
	if want == "" {
		return
	}
	assert.Equal(t, want, hex.EncodeToString(got), what)
}

var rfc9591Vectors = []rfcVector{
	{
		// Appendix E.1, FROST(Ed25519, SHA-512).
		suite:          NewEd25519SHA512(),
		groupSecretKey: "7b1c33d3f5291d85de664833beb1ad469f7fb6025a0ec78b3a790c6e13a98304",
		groupPublicKey: "15d21ccd7ee42959562fc8aa63224c8851fb3ec85a3faf66040d380fb9738673",
		coefficient:    "178199860edd8c62f5212ee91eff1295d0d670ab4ed4506866bae57e7030b204",
		message:        "74657374",
		signers: []signerVector{
			{
				id:                1,
				share:             "929dcc590407aae7d388761cddb0c0db6f5627aea8e217f4a033f2ec83d93509",
				hidingRandomness:  "0fd2e39e111cdc266f6c0f4d0fd45c947761f1f5d3cb583dfcb9bbaf8d4c9fec",
				bindingRandomness: "69cd85f631d5f7f2721ed5e40519b1366f340a87c2f6856363dbdcda348a7501",
				hidingNonce:       "812d6104142944d5a55924de6d49940956206909f2acaeedecda2b726e630407",
				bindingNonce:      "b1110165fc2334149750b28dd813a39244f315cff14d4e89e6142f262ed83301",
				hidingCommitment:  "b5aa8ab305882a6fc69cbee9327e5a45e54c08af61ae77cb8207be3d2ce13de3",
				bindingCommitment: "67e98ab55aa310c3120418e5050c9cf76cf387cb20ac9e4b6fdb6f82a469f932",
				bindingFactor:     "f2cb9d7dd9beff688da6fcc83fa89046b3479417f47f55600b106760eb3b5603",
				sigShare:          "001719ab5a53ee1a12095cd088fd149702c0720ce5fd2f29dbecf24b7281b603",
			},
			{
				id:                3,
				share:             "d3cb090a075eb154e82fdb4b3cb507f110040905468bb9c46da8bdea643a9a02",
				hidingRandomness:  "86d64a260059e495d0fb4fcc17ea3da7452391baa494d4b00321098ed2a0062f",
				bindingRandomness: "13e6b25afb2eba51716a9a7d44130c0dbae0004a9ef8d7b5550c8a0e07c61775",
				hidingNonce:       "c256de65476204095ebdc01bd11dc10e57b36bc96284595b8215222374f99c0e",
				bindingNonce:      "243d71944d929063bc51205714ae3c2218bd3451d0214dfb5aeec2a90c35180d",
				hidingCommitment:  "cfbdb165bd8aad6eb79deb8d287bcc0ab6658ae57fdcc98ed12c0669e90aec91",
				bindingCommitment: "7487bc41a6e712eea2f2af24681b58b1cf1da278ea11fe4e8b78398965f13552",
				bindingFactor:     "b087686bf35a13f3dc78e780a34b0fe8a77fef1b9938c563f5573d71d8d7890f",
				sigShare:          "bd86125de990acc5e1f13781d8e32c03a9bbd4c53539bbc106058bfd14326007",
			},
		},
		signature: "36282629c383bb820a88b71cae937d41f2f2adfcc3d02e55507e2fb9e2dd3cbe" +
			"bd9d2b0844e49ae0f3fa935161e1419aab7b47d21a37ebeae1f17d4987b3160b",
	},
	{
		// Appendix E.5, FROST(secp256k1, SHA-256). Only participant 1's round
		// one outputs are pinned; participant 3 signs with fixed randomness
		// and the result must still verify.
		suite:          NewSecp256k1SHA256(),
		groupSecretKey: "0d004150d27c3bf2a42f312683d35fac7394b1e9e318249c1bfe7f0795a83114",
		groupPublicKey: "02f37c34b66ced1fb51c34a90bdae006901f10625cc06c4f64663b0eae87d87b4f",
		coefficient:    "fbf85eadae3058ea14f19148bb72b45e4399c0b16028acaf0395c9b03c823579",
		message:        "74657374",
		signers: []signerVector{
			{
				id:                1,
				share:             "08f89ffe80ac94dcb920c26f3f46140bfc7f95b493f8310f5fc1ea2b01f4254c",
				hidingRandomness:  "7ea5ed09af19f6ff21040c07ec2d2adbd35b759da5a401d4c99dd26b82391cb2",
				bindingRandomness: "47acab018f116020c10cb9b9abdc7ac10aae1b48ca6e36dc15acb6ec9be5cdc5",
				hidingNonce:       "841d3a6450d7580b4da83c8e618414d0f024391f2aeb511d7579224420aa81f0",
				bindingNonce:      "8d2624f532af631377f33cf44b5ac5f849067cae2eacb88680a31e77c79b5a80",
				hidingCommitment:  "03c699af97d26bb4d3f05232ec5e1938c12f1e6ae97643c8f8f11c9820303f1904",
				bindingCommitment: "02fa2aaccd51b948c9dc1a325d77226e98a5a3fe65fe9ba213761a60123040a45e",
			},
			{
				id:                3,
				share:             "00e95d59dd0d46b0e303e500b62b7ccb0e555d49f5b849f5e748c071da8c0dbc",
				hidingRandomness:  "e9165dad654fc20a9e31ca6f32ac032ec327b551a50e8ac5cf25f5c4c9e20757",
				bindingRandomness: "e9059a232598a0fba0e495a687580e624ab425337c3221246fb2c716905bc9e7",
			},
		},
	},
}

func TestRFC9591Vectors(t *testing.T) {
	for _, v := range rfc9591Vectors {
		t.Run(v.suite.ContextString(), func(t *testing.T) {
			f := mustNew(t, v.suite)
			g := f.Group()

			secret := vectorScalar(t, g, v.groupSecretKey)
			coefficient := vectorScalar(t, g, v.coefficient)
			commitment := []group.Point{
				g.NewPoint().ScalarMult(secret, g.Generator()),
				g.NewPoint().ScalarMult(coefficient, g.Generator()),
			}
			verifyingKey := commitment[0]
			assertHex(t, v.groupPublicKey, verifyingKey.Bytes(), "group public key")
			message := unhex(t, v.message)

			var (
				kps        []*KeyPackage
				nonces     []*SigningNonces
				signerList []SignerCommitments
			)
			verifyingShares := map[string]group.Point{}
			for _, s := range v.signers {
				id, err := f.IdentifierFromUint16(s.id)
				require.NoError(t, err)
				share := &SecretShare{
					Identifier:   id,
					SigningShare: f.evalPolynomial([]group.Scalar{secret, coefficient}, id.s),
					Commitment:   commitment,
				}
				assertHex(t, s.share, share.SigningShare.Bytes(), "participant share")

				kp, err := f.KeyPackage(share)
				require.NoError(t, err)
				verifyingShares[string(id.Bytes())] = kp.VerifyingShare

				randomness := append(unhex(t, s.hidingRandomness), unhex(t, s.bindingRandomness)...)
				n, c, err := f.Commit(bytes.NewReader(randomness), kp.SigningShare)
				require.NoError(t, err)
				assertHex(t, s.hidingNonce, n.Hiding.Bytes(), "hiding nonce")
				assertHex(t, s.bindingNonce, n.Binding.Bytes(), "binding nonce")
				assertHex(t, s.hidingCommitment, c.Hiding.Bytes(), "hiding commitment")
				assertHex(t, s.bindingCommitment, c.Binding.Bytes(), "binding commitment")

				kps = append(kps, kp)
				nonces = append(nonces, n)
				signerList = append(signerList, SignerCommitments{Identifier: id, Commitments: c})
			}

			pkg, err := f.NewSigningPackage(message, signerList)
			require.NoError(t, err)

			factors := f.computeBindingFactors(pkg, verifyingKey)
			shares := make([]SignerShare, len(kps))
			for i, s := range v.signers {
				assertHex(t, s.bindingFactor, factors[string(kps[i].Identifier.Bytes())].Bytes(), "binding factor")

				share, err := f.Sign(pkg, nonces[i], kps[i])
				require.NoError(t, err)
				assertHex(t, s.sigShare, share.Bytes(), "signature share")
				shares[i] = SignerShare{Identifier: kps[i].Identifier, Share: share}
			}

			sig, err := f.Aggregate(pkg, shares, verifyingKey, verifyingShares)
			require.NoError(t, err)
			assertHex(t, v.signature, sig.Bytes(), "signature")
			assert.True(t, f.Verify(message, sig, verifyingKey))
		})
	}
}
