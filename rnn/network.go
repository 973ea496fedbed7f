package rnn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Network is the full generative model: one LSTM cell followed by a linear
// projection onto the vocabulary. Weights are owned by the training loop;
// anything that samples concurrently must work on a Clone.
type Network struct {
	VocabSize  int
	HiddenSize int

	Cell *LSTMCell
	Why  *mat.Dense // (vocab x hidden)
	By   *mat.Dense // (vocab x 1)
}

// NewNetwork initializes a network for the given vocabulary and hidden
// width, drawing initial weights from src.
func NewNetwork(vocabSize, hiddenSize int, src rand.Source) *Network {
	return &Network{
		VocabSize:  vocabSize,
		HiddenSize: hiddenSize,
		Cell:       NewLSTMCell(vocabSize, hiddenSize, src),
		Why:        mat.NewDense(vocabSize, hiddenSize, randomArray(vocabSize*hiddenSize, float64(hiddenSize), src)),
		By:         mat.NewDense(vocabSize, 1, nil),
	}
}

// NewState returns the zero recurrent state for the start of a sequence.
func (n *Network) NewState() *State {
	return n.Cell.NewState()
}

// StepProbs advances the carried state by one one-hot input column and
// returns the next-character distribution.
func (n *Network) StepProbs(x *mat.Dense, st *State) (*mat.Dense, *State) {
	next, cache := n.Cell.Step(x, st)
	logits := add(dot(n.Why, cache.h), n.By)
	return ColVectorSoftmax(logits), next
}

// forward runs the cell across the first steps rows of a (T x V) one-hot
// sequence, collecting per-step caches and logits for the backward pass.
func (n *Network) forward(input *mat.Dense, steps int) ([]*stepCache, []*mat.Dense) {
	st := n.Cell.NewState()
	caches := make([]*stepCache, steps)
	logits := make([]*mat.Dense, steps)
	for t := 0; t < steps; t++ {
		st, caches[t] = n.Cell.Step(rowAsCol(input, t), st)
		logits[t] = add(dot(n.Why, st.H), n.By)
	}
	return caches, logits
}

// Loss returns the summed per-step cross-entropy over the first steps rows
// of one encoded sample. Padding rows must lie past steps.
func (n *Network) Loss(input, target *mat.Dense, steps int) float64 {
	_, logits := n.forward(input, steps)
	total := 0.0
	for t := 0; t < steps; t++ {
		l, _ := CrossEntropyWithIndex(logits[t], oneHotIndex(target, t))
		total += l
	}
	return total
}

// Clone returns a deep copy of the weights. Checkpoint-time sampling runs
// on a clone so it reads an immutable snapshot of the parameters.
func (n *Network) Clone() *Network {
	return &Network{
		VocabSize:  n.VocabSize,
		HiddenSize: n.HiddenSize,
		Cell:       n.Cell.clone(),
		Why:        mat.DenseCopyOf(n.Why),
		By:         mat.DenseCopyOf(n.By),
	}
}

// parameters lists the trainable weights in a fixed order, matching
// Gradients.list.
func (n *Network) parameters() []*mat.Dense {
	return []*mat.Dense{
		n.Cell.Wf, n.Cell.Wi, n.Cell.Wg, n.Cell.Wo,
		n.Cell.Bf, n.Cell.Bi, n.Cell.Bg, n.Cell.Bo,
		n.Why, n.By,
	}
}
