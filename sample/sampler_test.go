package sample

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/shw079/Species-Neural-Language-Model/corpus"
	"github.com/shw079/Species-Neural-Language-Model/rnn"
)

func testVocab(t *testing.T) *corpus.Vocabulary {
	t.Helper()
	names := []string{corpus.Normalize("bacillus subtilis"), corpus.Normalize("ecoli")}
	return corpus.BuildVocabulary(names)
}

func testNet(t *testing.T, vocab *corpus.Vocabulary) *rnn.Network {
	t.Helper()
	return rnn.NewNetwork(vocab.Size(), 6, rand.NewPCG(1, 1))
}

func TestGenerateDeterministic(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)

	a := New(net, vocab, 7, 20)
	b := New(net, vocab, 7, 20)

	nameA, reasonA, err := a.Generate("")
	if err != nil {
		t.Fatal(err)
	}
	nameB, reasonB, err := b.Generate("")
	if err != nil {
		t.Fatal(err)
	}
	if nameA != nameB || reasonA != reasonB {
		t.Fatalf("same seed diverged: %q/%v vs %q/%v", nameA, reasonA, nameB, reasonB)
	}
}

func TestGenerateNeverEmitsTerminator(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)

	for seed := uint64(0); seed < 50; seed++ {
		s := New(net, vocab, seed, 15)
		name, _, err := s.Generate("")
		if err != nil {
			t.Fatal(err)
		}
		if strings.ContainsRune(name, corpus.Terminator) {
			t.Fatalf("seed %d: %q contains the terminator", seed, name)
		}
	}
}

func TestGeneratePrefixPreserved(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)

	s := New(net, vocab, 3, 30)
	name, _, err := s.Generate("bacillus_")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(name, "bacillus_") {
		t.Fatalf("%q does not start with the prefix", name)
	}
}

func TestGenerateEmptyPrefixSeedsOneCharacter(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)

	s := New(net, vocab, 5, 10)
	name, _, err := s.Generate("")
	if err != nil {
		t.Fatal(err)
	}
	if name == "" {
		t.Fatal("empty prefix produced an empty name")
	}
	if []rune(name)[0] == corpus.Terminator {
		t.Fatal("seed character is the terminator")
	}
}

func TestGenerateMaxLenGuard(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)

	const maxLen = 4
	sawTruncated := false
	sawNatural := false
	for seed := uint64(0); seed < 100; seed++ {
		s := New(net, vocab, seed, maxLen)
		name, reason, err := s.Generate("")
		if err != nil {
			t.Fatal(err)
		}
		if got := len([]rune(name)); got > maxLen {
			t.Fatalf("seed %d: length %d exceeds guard %d", seed, got, maxLen)
		}
		switch reason {
		case StopMaxLen:
			sawTruncated = true
			if got := len([]rune(name)); got != maxLen {
				t.Fatalf("seed %d: truncated at %d, want %d", seed, got, maxLen)
			}
		case StopTerminator:
			sawNatural = true
		}
	}
	// An untrained model spreads mass over all characters, so both stop
	// reasons show up across 100 seeds.
	if !sawTruncated || !sawNatural {
		t.Fatalf("saw truncated=%v natural=%v", sawTruncated, sawNatural)
	}
}

func TestGenerateOverlongPrefix(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)

	// The cap counts the prefix, so a prefix past it cannot be honored.
	s := New(net, vocab, 1, 4)
	if _, _, err := s.Generate("bacillus_"); err == nil {
		t.Fatal("expected an error for a prefix longer than the length cap")
	}

	// A prefix exactly at the cap comes back whole, flagged as truncated.
	s = New(net, vocab, 1, 9)
	name, reason, err := s.Generate("bacillus_")
	if err != nil {
		t.Fatal(err)
	}
	if name != "bacillus_" || reason != StopMaxLen {
		t.Fatalf("got %q/%v, want %q/%v", name, reason, "bacillus_", StopMaxLen)
	}
}

func TestGenerateRejectsBadPrefix(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)
	s := New(net, vocab, 1, 20)

	if _, _, err := s.Generate("zz"); err == nil {
		t.Fatal("expected an error for out-of-vocabulary prefix")
	}
	if _, _, err := s.Generate("ba" + string(corpus.Terminator)); err == nil {
		t.Fatal("expected an error for a prefix containing the terminator")
	}
}

func TestGenerateSnapshotIsolation(t *testing.T) {
	vocab := testVocab(t)
	net := testNet(t, vocab)

	a := New(net, vocab, 9, 20)
	want, _, err := a.Generate("")
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the live network must not change what an existing sampler's
	// snapshot generates.
	net.Why.Set(0, 0, 50)
	again := New(a.net, vocab, 9, 20)
	got, _, err := again.Generate("")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("snapshot drifted: %q vs %q", got, want)
	}
}
