package corpus

import "gonum.org/v1/gonum/mat"

// Dataset is the one-hot encoded corpus. Inputs and Targets hold one
// (Steps x V) matrix per sample, the rank-3 layout indexed
// [sample, time-step, vocabulary-index]. For sample i and step
// t < Lengths[i], target row t is the one-hot of the character that follows
// input row t; every later row is all-zero padding in both matrices.
type Dataset struct {
	Vocab   *Vocabulary
	Inputs  []*mat.Dense
	Targets []*mat.Dense
	Lengths []int // valid (non-padding) steps per sample
	Steps   int   // longest name length - 1
}

// Encode one-hot encodes normalized names against vocab. Names must only
// contain vocabulary characters; Encode panics otherwise, as vocab is built
// from the same corpus. An empty corpus, or one whose names are all a bare
// terminator, yields a dataset with no rows.
func Encode(names []string, vocab *Vocabulary) *Dataset {
	maxLen := 0
	for _, n := range names {
		if l := len([]rune(n)); l > maxLen {
			maxLen = l
		}
	}
	steps := maxLen - 1

	ds := &Dataset{Vocab: vocab, Steps: steps}
	if steps <= 0 {
		ds.Steps = 0
		return ds
	}

	for _, n := range names {
		rs := []rune(n)
		in := mat.NewDense(steps, vocab.Size(), nil)
		tg := mat.NewDense(steps, vocab.Size(), nil)
		valid := len(rs) - 1
		if valid > steps {
			valid = steps
		}
		for t := 0; t < valid; t++ {
			in.Set(t, mustIndex(vocab, rs[t]), 1)
			tg.Set(t, mustIndex(vocab, rs[t+1]), 1)
		}
		ds.Inputs = append(ds.Inputs, in)
		ds.Targets = append(ds.Targets, tg)
		ds.Lengths = append(ds.Lengths, valid)
	}
	return ds
}

func mustIndex(vocab *Vocabulary, r rune) int {
	i := vocab.Index(r)
	if i < 0 {
		panic("corpus: character outside the vocabulary: " + string(r))
	}
	return i
}
