// Package sample draws candidate species names from a trained network, one
// character at a time.
package sample

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/shw079/Species-Neural-Language-Model/corpus"
	"github.com/shw079/Species-Neural-Language-Model/rnn"
)

// StopReason reports why generation ended.
type StopReason int

const (
	// StopTerminator means the model drew the terminator symbol.
	StopTerminator StopReason = iota
	// StopMaxLen means the length guard fired before a terminator was drawn.
	StopMaxLen
)

func (r StopReason) String() string {
	switch r {
	case StopTerminator:
		return "terminator"
	case StopMaxLen:
		return "max-length"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Sampler generates names from its own snapshot of the network weights, so
// later training updates cannot leak into an in-flight sampler. All
// randomness comes from the seeded source passed at construction; equal
// seeds over equal weights reproduce the same names.
type Sampler struct {
	net    *rnn.Network
	vocab  *corpus.Vocabulary
	src    rand.Source
	rng    *rand.Rand
	maxLen int
}

// New builds a sampler around a deep copy of net. maxLen caps the emitted
// name length, prefix included.
func New(net *rnn.Network, vocab *corpus.Vocabulary, seed uint64, maxLen int) *Sampler {
	src := rand.NewPCG(seed, seed)
	return &Sampler{
		net:    net.Clone(),
		vocab:  vocab,
		src:    src,
		rng:    rand.New(src),
		maxLen: maxLen,
	}
}

// Generate produces one candidate name beginning with prefix. With an empty
// prefix the sequence is seeded with one uniformly drawn non-terminator
// character. A prefix longer than the sampler's length cap is rejected. The
// terminator is never part of the returned string; reason distinguishes a
// natural stop from the length guard.
func (s *Sampler) Generate(prefix string) (name string, reason StopReason, err error) {
	seed := []rune(prefix)
	if len(seed) == 0 {
		r, err := s.randomStart()
		if err != nil {
			return "", StopTerminator, err
		}
		seed = []rune{r}
	}
	for _, r := range seed {
		if r == corpus.Terminator {
			return "", StopTerminator, fmt.Errorf("sample: prefix contains the terminator %q", r)
		}
		if s.vocab.Index(r) < 0 {
			return "", StopTerminator, fmt.Errorf("sample: prefix character %q not in vocabulary", r)
		}
	}
	if len(seed) > s.maxLen {
		return "", StopMaxLen, fmt.Errorf("sample: prefix length %d exceeds the %d-character cap", len(seed), s.maxLen)
	}

	var sb strings.Builder
	st := s.net.NewState()
	var probs *mat.Dense
	for _, r := range seed {
		sb.WriteRune(r)
		probs, st = s.step(r, st)
	}

	for count := len(seed); count < s.maxLen; count++ {
		idx := s.draw(probs)
		if idx == s.vocab.TerminatorIndex() {
			return sb.String(), StopTerminator, nil
		}
		r := s.vocab.Rune(idx)
		sb.WriteRune(r)
		probs, st = s.step(r, st)
	}
	return sb.String(), StopMaxLen, nil
}

// step advances the recurrent state by the one-hot of r.
func (s *Sampler) step(r rune, st *rnn.State) (*mat.Dense, *rnn.State) {
	x, err := s.vocab.OneHot(r)
	if err != nil {
		// Callers validate runes before stepping.
		panic(err)
	}
	return s.net.StepProbs(x, st)
}

// draw samples one vocabulary index from the categorical distribution in
// the (V x 1) probability column.
func (s *Sampler) draw(probs *mat.Dense) int {
	w := make([]float64, s.vocab.Size())
	for i := range w {
		w[i] = probs.At(i, 0)
	}
	cat := distuv.NewCategorical(w, s.src)
	return int(cat.Rand())
}

// randomStart picks a uniform non-terminator vocabulary character.
func (s *Sampler) randomStart() (rune, error) {
	if s.vocab.Size() < 2 {
		return 0, fmt.Errorf("sample: vocabulary holds only the terminator")
	}
	i := s.rng.IntN(s.vocab.Size() - 1)
	if i >= s.vocab.TerminatorIndex() {
		i++
	}
	return s.vocab.Rune(i), nil
}
