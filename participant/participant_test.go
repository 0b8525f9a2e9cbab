package participant_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/frostsigner/coordinator"
	"github.com/f3rmion/frostsigner/participant"
)

func dealer(t *testing.T, minSigners, maxSigners int) ([]participant.SecretKeyShare, *coordinator.PublicKeyPackage) {
	t.Helper()
	shares, pub, err := coordinator.TrustedDealerKeygen(minSigners, maxSigners)
	require.NoError(t, err)
	return shares, pub
}

func keyPackage(t *testing.T, share participant.SecretKeyShare) participant.KeyPackage {
	t.Helper()
	kp, err := share.IntoKeyPackage()
	require.NoError(t, err)
	return kp
}

func requireRound1Kind(t *testing.T, err error, kind participant.Round1ErrorKind) {
	t.Helper()
	var r1 *participant.Round1Error
	require.True(t, errors.As(err, &r1), "got %v", err)
	assert.Equal(t, kind, r1.Kind)
}

func requireRound2Kind(t *testing.T, err error, kind participant.Round2ErrorKind) *participant.Round2Error {
	t.Helper()
	var r2 *participant.Round2Error
	require.True(t, errors.As(err, &r2), "got %v", err)
	assert.Equal(t, kind, r2.Kind)
	return r2
}

func TestCommitTagsIdentifierFromShare(t *testing.T) {
	shares, _ := dealer(t, 2, 3)

	for _, share := range shares {
		out, err := participant.Commit(share)
		require.NoError(t, err)
		assert.Equal(t, share.Identifier, out.Commitments.Identifier)

		// The record's own identifier field is optional; the tag still
		// comes from the encoded share.
		anonymous := participant.SecretKeyShare{Data: share.Data}
		out, err = participant.Commit(anonymous)
		require.NoError(t, err)
		assert.Equal(t, share.Identifier, out.Commitments.Identifier)
	}
}

func TestCommitRejectsInvalidShare(t *testing.T) {
	shares, _ := dealer(t, 2, 3)

	t.Run("Garbage", func(t *testing.T) {
		_, err := participant.Commit(participant.SecretKeyShare{Data: []byte{1, 2, 3}})
		requireRound1Kind(t, err, participant.Round1InvalidKeyPackage)
	})

	t.Run("Truncated", func(t *testing.T) {
		data := shares[0].Data[:len(shares[0].Data)-1]
		_, err := participant.Commit(participant.SecretKeyShare{Data: data})
		requireRound1Kind(t, err, participant.Round1InvalidKeyPackage)
	})

	t.Run("MislabeledIdentifier", func(t *testing.T) {
		_, err := participant.Commit(participant.SecretKeyShare{
			Identifier: shares[1].Identifier,
			Data:       shares[0].Data,
		})
		requireRound1Kind(t, err, participant.Round1InvalidKeyPackage)
	})

	t.Run("FailsVerification", func(t *testing.T) {
		// Flip a bit in the signing share, which follows the header and
		// the identifier.
		g := participant.Protocol().Group()
		data := append([]byte{}, shares[0].Data...)
		data[5+g.ScalarLen()+g.ScalarLen()/2] ^= 1
		_, err := participant.Commit(participant.SecretKeyShare{Data: data})
		requireRound1Kind(t, err, participant.Round1InvalidKeyPackage)
	})
}

func TestCommitOutputsDecode(t *testing.T) {
	shares, _ := dealer(t, 2, 3)
	f := participant.Protocol()

	a, err := participant.Commit(shares[0])
	require.NoError(t, err)
	b, err := participant.Commit(shares[0])
	require.NoError(t, err)
	assert.NotEqual(t, a.Nonces.Data, b.Nonces.Data, "fresh nonces every call")

	nonces, err := f.DecodeSigningNonces(a.Nonces.Data)
	require.NoError(t, err)
	id, commitments, err := a.Commitments.Decode()
	require.NoError(t, err)
	assert.True(t, nonces.Commitments.Equal(commitments))
	assert.Equal(t, shares[0].Identifier.Data, id.String())
}

func TestPreprocess(t *testing.T) {
	shares, _ := dealer(t, 2, 3)

	out, err := participant.Preprocess(context.Background(), shares[0], 8)
	require.NoError(t, err)
	require.Len(t, out, 8)
	seen := map[string]bool{}
	for _, c := range out {
		assert.Equal(t, shares[0].Identifier, c.Commitments.Identifier)
		seen[string(c.Commitments.Data)] = true
	}
	assert.Len(t, seen, 8)

	for _, n := range []int{0, -1} {
		out, err := participant.Preprocess(context.Background(), shares[0], n)
		assert.Error(t, err, "count %d", n)
		assert.Nil(t, out)
	}

	_, err = participant.Preprocess(context.Background(), participant.SecretKeyShare{}, 2)
	requireRound1Kind(t, err, participant.Round1InvalidKeyPackage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = participant.Preprocess(ctx, shares[0], 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIdentifierRecords(t *testing.T) {
	id, err := participant.IdentifierFromUint16(7)
	require.NoError(t, err)
	decoded, err := id.Identifier()
	require.NoError(t, err)
	assert.Equal(t, id.Data, decoded.String())

	_, err = participant.IdentifierFromUint16(0)
	assert.Error(t, err)

	_, err = participant.ParticipantIdentifier{Data: "zz"}.Identifier()
	assert.Error(t, err)
}

type round1 struct {
	share participant.SecretKeyShare
	kp    participant.KeyPackage
	out   *participant.FirstRoundCommitment
}

func commitAll(t *testing.T, shares []participant.SecretKeyShare) []round1 {
	t.Helper()
	out := make([]round1, len(shares))
	for i, s := range shares {
		c, err := participant.Commit(s)
		require.NoError(t, err)
		out[i] = round1{share: s, kp: keyPackage(t, s), out: c}
	}
	return out
}

func signingPackage(t *testing.T, message []byte, signers []round1) participant.SigningPackage {
	t.Helper()
	commitments := make([]participant.SigningCommitments, len(signers))
	for i, s := range signers {
		commitments[i] = s.out.Commitments
	}
	pkg, err := coordinator.NewSigningPackage(coordinator.Message{Data: message}, commitments)
	require.NoError(t, err)
	return *pkg
}

func TestEndToEndTwoOfThree(t *testing.T) {
	shares, pub := dealer(t, 2, 3)
	message := []byte("pay 10 to bob")

	subsets := [][]int{{0, 1}, {0, 2}, {1, 2}}
	for _, subset := range subsets {
		// Fresh round one for every attempt; nonces are single-use.
		all := commitAll(t, shares)
		signers := []round1{all[subset[0]], all[subset[1]]}
		pkg := signingPackage(t, message, signers)

		sigShares := make([]participant.SignatureShare, len(signers))
		for i, s := range signers {
			share, err := signShare(pkg, s.out.Nonces, s.kp)
			require.NoError(t, err)
			assert.Equal(t, s.share.Identifier, share.Identifier)
			assert.Len(t, share.Data, participant.Protocol().Group().ScalarLen())
			sigShares[i] = *share
		}

		aggregateAndVerify(t, message, pkg, sigShares, pub)
	}
}

func TestSignWithoutOwnCommitmentFails(t *testing.T) {
	shares, _ := dealer(t, 2, 3)
	all := commitAll(t, shares)

	// Package from participants 2 and 3; participant 1 tries to sign.
	pkg := signingPackage(t, []byte("m"), all[1:])
	_, err := signShare(pkg, all[0].out.Nonces, all[0].kp)
	r2 := requireRound2Kind(t, err, participant.Round2SigningFailed)
	assert.NotEmpty(t, r2.Message)
}

func TestSignWithForeignNoncesFails(t *testing.T) {
	shares, _ := dealer(t, 2, 3)
	all := commitAll(t, shares)
	pkg := signingPackage(t, []byte("m"), all[:2])

	_, err := signShare(pkg, all[1].out.Nonces, all[0].kp)
	requireRound2Kind(t, err, participant.Round2SigningFailed)
}

func TestSignInputDecodingOrder(t *testing.T) {
	shares, _ := dealer(t, 2, 3)
	all := commitAll(t, shares)
	pkg := signingPackage(t, []byte("m"), all[:2])
	nonces, kp := all[0].out.Nonces, all[0].kp

	badPkg := participant.SigningPackage{Data: []byte{0xff}}
	badNonces := participant.SigningNonces{Data: nonces.Data[:10]}
	badKP := participant.KeyPackage{Data: []byte("nope")}

	_, err := signShare(badPkg, badNonces, badKP)
	requireRound2Kind(t, err, participant.Round2SigningPackageDeserialization)

	_, err = signShare(pkg, badNonces, badKP)
	requireRound2Kind(t, err, participant.Round2NonceSerialization)

	_, err = signShare(pkg, nonces, badKP)
	requireRound2Kind(t, err, participant.Round2InvalidKeyPackage)

	mislabeled := participant.KeyPackage{Identifier: all[1].kp.Identifier, Data: kp.Data}
	_, err = signShare(pkg, nonces, mislabeled)
	requireRound2Kind(t, err, participant.Round2InvalidKeyPackage)
}

func TestSignRejectsPaddedSigningPackage(t *testing.T) {
	shares, _ := dealer(t, 2, 3)
	all := commitAll(t, shares)
	pkg := signingPackage(t, []byte("m"), all[:2])

	padded := participant.SigningPackage{Data: append(append([]byte{}, pkg.Data...), 0xde, 0xad, 0xbe, 0xef)}
	_, err := signShare(padded, all[0].out.Nonces, all[0].kp)
	requireRound2Kind(t, err, participant.Round2SigningPackageDeserialization)

	_, err = signShare(pkg, all[0].out.Nonces, all[0].kp)
	assert.NoError(t, err)
}

// Sign does not consume nonces. Reusing them produces a second share that
// the caller must never release; see the frost package tests for the key
// recovery this enables.
func TestNonceReuseIsCallerDiscipline(t *testing.T) {
	shares, _ := dealer(t, 2, 3)
	all := commitAll(t, shares)
	signer := all[0]

	first := signingPackage(t, []byte("first"), all[:2])
	second := signingPackage(t, []byte("second"), all[:2])

	a, err := signShare(first, signer.out.Nonces, signer.kp)
	require.NoError(t, err)
	b, err := signShare(second, signer.out.Nonces, signer.kp)
	require.NoError(t, err)
	assert.NotEqual(t, a.Data, b.Data)
}

func TestConcurrentIndependentAttempts(t *testing.T) {
	shares, _ := dealer(t, 2, 3)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			var all []round1
			for _, s := range shares[:2] {
				c, err := participant.Commit(s)
				if err != nil {
					errs <- err
					return
				}
				kp, err := s.IntoKeyPackage()
				if err != nil {
					errs <- err
					return
				}
				all = append(all, round1{share: s, kp: kp, out: c})
			}
			commitments := []participant.SigningCommitments{all[0].out.Commitments, all[1].out.Commitments}
			pkg, err := coordinator.NewSigningPackage(coordinator.Message{Data: []byte{byte(i)}}, commitments)
			if err != nil {
				errs <- err
				return
			}
			for _, s := range all {
				if _, err := signShare(*pkg, s.out.Nonces, s.kp); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "participant: provided key package is invalid",
		(&participant.Round1Error{Kind: participant.Round1InvalidKeyPackage}).Error())
	assert.Contains(t,
		(&participant.Round2Error{Kind: participant.Round2SigningFailed, Message: "boom"}).Error(), "boom")
	assert.Equal(t, "Round1ErrorKind(42)", participant.Round1ErrorKind(42).String())
}
