package session

import (
	"crypto/rand"
	"errors"
	"sync"
	"testing"

	"github.com/f3rmion/frostsigner/frost"
	"github.com/f3rmion/frostsigner/group"
)

func newFROST(t *testing.T) *frost.FROST {
	t.Helper()
	f, err := frost.New(frost.NewBabyJubjubBlake2b512())
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// runDKG runs a full DKG ceremony and returns the participants and their
// results.
func runDKG(t *testing.T, f *frost.FROST, minSigners, maxSigners int) ([]*Participant, []*DKGResult) {
	t.Helper()

	participants := make([]*Participant, maxSigners)
	allIDs := make([]uint16, maxSigners)
	for i := 0; i < maxSigners; i++ {
		allIDs[i] = uint16(i + 1)
		p, err := NewParticipant(f, minSigners, maxSigners, uint16(i+1))
		if err != nil {
			t.Fatalf("failed to create participant %d: %v", i+1, err)
		}
		participants[i] = p
	}

	r1Outputs := make([]*Round1Output, maxSigners)
	for i, p := range participants {
		r1, err := p.GenerateRound1(rand.Reader, allIDs)
		if err != nil {
			t.Fatalf("participant %d failed to generate round 1: %v", i+1, err)
		}
		r1Outputs[i] = r1
	}

	broadcasts := make([]*frost.Round1Data, maxSigners)
	for i, r1 := range r1Outputs {
		broadcasts[i] = r1.Broadcast
	}

	results := make([]*DKGResult, maxSigners)
	for i, p := range participants {
		var privateShares []*frost.Round1PrivateData
		for j, r1 := range r1Outputs {
			if i == j {
				continue // skip own shares
			}
			if share, ok := r1.PrivateShares[uint16(i+1)]; ok {
				privateShares = append(privateShares, share)
			}
		}

		result, err := p.ProcessRound1(&Round1Input{
			Broadcasts:    broadcasts,
			PrivateShares: privateShares,
		})
		if err != nil {
			t.Fatalf("participant %d failed to process round 1: %v", i+1, err)
		}
		results[i] = result
	}
	return participants, results
}

// signWithSessions runs one signing ceremony with the given participants.
func signWithSessions(t *testing.T, signers []*Participant, result *DKGResult, message []byte) *frost.Signature {
	t.Helper()

	sessions := make([]*SigningSession, len(signers))
	commitments := make([]frost.SignerCommitments, len(signers))
	for i, p := range signers {
		sess, err := p.NewSigningSession(rand.Reader, message)
		if err != nil {
			t.Fatalf("signer %d failed to create session: %v", i+1, err)
		}
		sessions[i] = sess
		commitments[i] = sess.Commitment()
	}

	shares := make([]frost.SignerShare, len(signers))
	for i, sess := range sessions {
		share, err := sess.Sign(commitments)
		if err != nil {
			t.Fatalf("signer %d failed to sign: %v", i+1, err)
		}
		shares[i] = frost.SignerShare{Identifier: signers[i].ID(), Share: share}
	}

	sig, err := Aggregate(signers[0].FROST(), message, commitments, shares, result.VerifyingKey, result.VerifyingShares)
	if err != nil {
		t.Fatalf("failed to aggregate: %v", err)
	}
	return sig
}

func TestDKGAndSign(t *testing.T) {
	f := newFROST(t)
	participants, results := runDKG(t, f, 2, 3)

	// Verify all participants have the same group key
	for i := 1; i < len(results); i++ {
		if !results[i].VerifyingKey.Equal(results[0].VerifyingKey) {
			t.Error("participants have different group keys")
		}
	}

	// Every participant computes the same verifying shares, and each
	// matches that participant's own key package.
	for _, p := range participants {
		key := string(p.ID().Bytes())
		for i, r := range results {
			if !r.VerifyingShares[key].Equal(p.KeyPackage().VerifyingShare) {
				t.Errorf("participant %d disagrees on verifying share of %s", i+1, p.ID())
			}
		}
	}

	t.Run("Signing", func(t *testing.T) {
		message := []byte("hello session API")
		sig := signWithSessions(t, participants[:2], results[0], message)

		if err := Verify(f, message, sig, results[0].VerifyingKey); err != nil {
			t.Error("signature verification failed")
		}

		// Wrong message should fail
		err := Verify(f, []byte("wrong message"), sig, results[0].VerifyingKey)
		if !errors.Is(err, frost.ErrInvalidSignature) {
			t.Errorf("expected ErrInvalidSignature, got %v", err)
		}
	})
}

func TestNonceReusePrevention(t *testing.T) {
	f := newFROST(t)
	participants, _ := runDKG(t, f, 2, 3)

	message := []byte("test nonce reuse")
	sess, err := participants[0].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	other, err := participants[1].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	commitments := []frost.SignerCommitments{sess.Commitment(), other.Commitment()}

	// First sign should succeed
	if _, err := sess.Sign(commitments); err != nil {
		t.Fatalf("first sign failed: %v", err)
	}

	// Second sign should fail (nonce reuse prevention)
	if _, err := sess.Sign(commitments); !errors.Is(err, ErrSessionConsumed) {
		t.Errorf("second sign should fail with ErrSessionConsumed, got %v", err)
	}

	if !sess.IsConsumed() {
		t.Error("session should be marked as consumed")
	}
}

func TestConcurrentSignOnOneSession(t *testing.T) {
	f := newFROST(t)
	participants, _ := runDKG(t, f, 2, 3)

	message := []byte("race")
	sess, err := participants[0].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	other, err := participants[1].NewSigningSession(rand.Reader, message)
	if err != nil {
		t.Fatal(err)
	}
	commitments := []frost.SignerCommitments{sess.Commitment(), other.Commitment()}

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sess.Sign(commitments); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one successful Sign, got %d", successes)
	}
}

func TestSigningSessionWithoutDKG(t *testing.T) {
	p, _ := NewParticipant(newFROST(t), 2, 3, 1)

	// Try to create a signing session without completing DKG
	_, err := p.NewSigningSession(rand.Reader, []byte("test"))
	if err == nil {
		t.Error("should fail to create signing session without DKG")
	}
}

func TestDuplicateRound1Generation(t *testing.T) {
	allIDs := []uint16{1, 2, 3}

	p, _ := NewParticipant(newFROST(t), 2, 3, 1)

	// First round 1 should succeed
	if _, err := p.GenerateRound1(rand.Reader, allIDs); err != nil {
		t.Fatal(err)
	}

	// Second round 1 should fail
	if _, err := p.GenerateRound1(rand.Reader, allIDs); err == nil {
		t.Error("should not allow generating round 1 twice")
	}
}

func TestParticipantIDValidation(t *testing.T) {
	f := newFROST(t)

	// ID too low
	if _, err := NewParticipant(f, 2, 3, 0); err == nil {
		t.Error("should reject ID of 0")
	}

	// ID too high
	if _, err := NewParticipant(f, 2, 3, 4); err == nil {
		t.Error("should reject ID greater than total")
	}

	if _, err := NewParticipant(nil, 2, 3, 1); err == nil {
		t.Error("should reject nil FROST instance")
	}

	// Valid IDs
	for id := uint16(1); id <= 3; id++ {
		if _, err := NewParticipant(f, 2, 3, id); err != nil {
			t.Errorf("should accept ID %d", id)
		}
	}
}

func TestQuickSign(t *testing.T) {
	f := newFROST(t)
	_, results := runDKG(t, f, 2, 3)

	keyPackages := []*frost.KeyPackage{results[0].KeyPackage, results[2].KeyPackage}

	message := []byte("quick sign test")
	sig, err := QuickSign(f, rand.Reader, keyPackages, message)
	if err != nil {
		t.Fatalf("QuickSign failed: %v", err)
	}

	if err := Verify(f, message, sig, results[1].VerifyingKey); err != nil {
		t.Error("signature verification failed")
	}
}

func TestSetKeyPackage(t *testing.T) {
	f := newFROST(t)
	participants, results := runDKG(t, f, 2, 3)

	// Restore participant 1 from its key package, simulating storage.
	restored, _ := NewParticipant(f, 2, 3, 1)
	if err := restored.SetKeyPackage(results[0].KeyPackage); err != nil {
		t.Fatal(err)
	}

	message := []byte("restored participant test")
	sig := signWithSessions(t, []*Participant{restored, participants[1]}, results[1], message)
	if err := Verify(f, message, sig, results[1].VerifyingKey); err != nil {
		t.Error("signature verification failed")
	}

	// A key package belonging to someone else is refused.
	wrong, _ := NewParticipant(f, 2, 3, 3)
	if err := wrong.SetKeyPackage(results[0].KeyPackage); !errors.Is(err, frost.ErrInvalidIdentifier) {
		t.Errorf("expected ErrInvalidIdentifier, got %v", err)
	}
	if err := wrong.SetKeyPackage(nil); err == nil {
		t.Error("should reject nil key package")
	}
}

func TestAggregateValidation(t *testing.T) {
	f := newFROST(t)
	g := f.Group()
	id, _ := f.IdentifierFromUint16(1)
	commitment := frost.SignerCommitments{
		Identifier:  id,
		Commitments: &frost.SigningCommitments{Hiding: g.Generator(), Binding: g.Generator()},
	}
	share := frost.SignerShare{Identifier: id, Share: &frost.SignatureShare{Z: g.NewScalar()}}
	vk := g.Generator()
	shares := map[string]group.Point{}

	// Empty shares
	if _, err := Aggregate(f, []byte("test"), nil, nil, vk, shares); err == nil {
		t.Error("should fail with no shares")
	}

	// Empty commitments
	if _, err := Aggregate(f, []byte("test"), nil, []frost.SignerShare{share}, vk, shares); err == nil {
		t.Error("should fail with no commitments")
	}

	// Mismatched counts
	_, err := Aggregate(f, []byte("test"),
		[]frost.SignerCommitments{commitment},
		[]frost.SignerShare{share, share}, vk, shares)
	if err == nil {
		t.Error("should fail with mismatched counts")
	}
}

func TestSigningWithDifferentSubsets(t *testing.T) {
	f := newFROST(t)
	participants, results := runDKG(t, f, 2, 4)

	message := []byte("subset signing test")

	// Test different signer subsets
	subsets := [][]int{
		{0, 1},       // participants 1 and 2
		{0, 2},       // participants 1 and 3
		{3, 1},       // participants 4 and 2
		{0, 1, 2},    // participants 1, 2, and 3
		{0, 1, 2, 3}, // all participants
	}

	for _, subset := range subsets {
		signers := make([]*Participant, len(subset))
		for i, idx := range subset {
			signers[i] = participants[idx]
		}

		sig := signWithSessions(t, signers, results[0], message)
		if err := Verify(f, message, sig, results[0].VerifyingKey); err != nil {
			t.Errorf("subset %v: verification failed", subset)
		}
	}
}

func TestMissingOwnCommitment(t *testing.T) {
	f := newFROST(t)
	participants, _ := runDKG(t, f, 2, 3)

	message := []byte("test")
	sess, _ := participants[0].NewSigningSession(rand.Reader, message)

	// Try to sign with commitments that don't include our own
	sess2, _ := participants[1].NewSigningSession(rand.Reader, message)
	sess3, _ := participants[2].NewSigningSession(rand.Reader, message)
	wrongCommitments := []frost.SignerCommitments{sess2.Commitment(), sess3.Commitment()}

	if _, err := sess.Sign(wrongCommitments); err == nil {
		t.Error("should fail when own commitment is missing")
	}

	// The failed attempt still consumed the session.
	if !sess.IsConsumed() {
		t.Error("failed sign should consume the session")
	}
}

func TestRandomizedSession(t *testing.T) {
	f := newFROST(t)
	participants, results := runDKG(t, f, 2, 3)
	message := []byte("randomized session")

	rnd, err := f.GenerateRandomizer(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	signers := participants[1:]
	sessions := make([]*SigningSession, len(signers))
	commitments := make([]frost.SignerCommitments, len(signers))
	for i, p := range signers {
		sess, err := p.NewSigningSession(rand.Reader, message)
		if err != nil {
			t.Fatal(err)
		}
		sessions[i] = sess
		commitments[i] = sess.Commitment()
	}

	if _, err := sessions[0].SignRandomized(commitments, nil); !errors.Is(err, frost.ErrInvalidRandomizer) {
		t.Errorf("expected ErrInvalidRandomizer, got %v", err)
	}
	if sessions[0].IsConsumed() {
		t.Error("a rejected randomizer should not consume the session")
	}

	shares := make([]frost.SignerShare, len(signers))
	for i, sess := range sessions {
		share, err := sess.SignRandomized(commitments, rnd)
		if err != nil {
			t.Fatalf("signer %d failed: %v", i+1, err)
		}
		shares[i] = frost.SignerShare{Identifier: signers[i].ID(), Share: share}
	}

	pkg, err := f.NewSigningPackage(message, commitments)
	if err != nil {
		t.Fatal(err)
	}
	sig, err := f.AggregateRandomized(pkg, shares, results[0].VerifyingKey, results[0].VerifyingShares, rnd)
	if err != nil {
		t.Fatal(err)
	}

	params := f.NewRandomizedParams(results[0].VerifyingKey, rnd)
	if err := Verify(f, message, sig, params.RandomizedVerifyingKey); err != nil {
		t.Error("randomized signature should verify under the randomized key")
	}
	if err := Verify(f, message, sig, results[0].VerifyingKey); err == nil {
		t.Error("randomized signature should not verify under the group key")
	}
}
