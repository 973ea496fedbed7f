package train

import (
	"fmt"
	"math/rand/v2"

	"github.com/shw079/Species-Neural-Language-Model/corpus"
	"github.com/shw079/Species-Neural-Language-Model/params"
	"github.com/shw079/Species-Neural-Language-Model/rnn"
	"github.com/shw079/Species-Neural-Language-Model/sample"
)

// Trainer runs mini-batch gradient descent over an encoded corpus.
type Trainer struct {
	Net    *rnn.Network
	Data   *corpus.Dataset
	Config params.Config

	opt *rnn.Adam
	rng *rand.Rand
}

// New wires a trainer for net over data. seed drives batch shuffling and
// the checkpoint samplers.
func New(net *rnn.Network, data *corpus.Dataset, cfg params.Config, seed uint64) *Trainer {
	return &Trainer{
		Net:    net,
		Data:   data,
		Config: cfg,
		opt:    rnn.NewAdam(net, cfg.AdamBeta1, cfg.AdamBeta2, cfg.AdamEps),
		rng:    rand.New(rand.NewPCG(seed, seed)),
	}
}

// Train runs cfg.Epochs full passes and returns the last epoch's mean
// per-step loss. Every CheckpointEvery epochs it prints the epoch loss and
// one prefix-free name drawn from a snapshot of the current weights; the
// diagnostic never touches training state. There is no convergence or NaN
// detection: a diverging run keeps going.
func (t *Trainer) Train() float64 {
	cfg := t.Config
	n := len(t.Data.Inputs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	var meanLoss float64
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		t.rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		var epochLoss float64
		var scored int

		for start := 0; start < n; start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, n)
			batch := order[start:end]

			grads := t.Net.NewGradients()
			for _, i := range batch {
				steps := t.Data.Lengths[i]
				if steps == 0 {
					continue
				}
				epochLoss += t.Net.Accumulate(grads, t.Data.Inputs[i], t.Data.Targets[i], steps)
				scored += steps
			}
			grads.Scale(1 / float64(len(batch)))
			grads.ClipNorm(cfg.GradClip)
			t.opt.Step(t.Net, grads, cfg.LearningRate)
		}

		meanLoss = epochLoss / float64(max(scored, 1))
		if cfg.CheckpointEvery > 0 && epoch%cfg.CheckpointEvery == 0 {
			name := t.checkpointSample()
			fmt.Printf("epoch %4d | loss %.4f | sample: %s\n", epoch, meanLoss, name)
		}
	}
	return meanLoss
}

// Evaluate returns the mean per-step cross-entropy over the whole dataset
// without touching the weights.
func (t *Trainer) Evaluate() float64 {
	var total float64
	var scored int
	for i := range t.Data.Inputs {
		steps := t.Data.Lengths[i]
		if steps == 0 {
			continue
		}
		total += t.Net.Loss(t.Data.Inputs[i], t.Data.Targets[i], steps)
		scored += steps
	}
	return total / float64(max(scored, 1))
}

// checkpointSample draws one prefix-free name from a clone of the current
// weights.
func (t *Trainer) checkpointSample() string {
	s := sample.New(t.Net, t.Data.Vocab, t.rng.Uint64(), t.Config.MaxGenLen)
	name, reason, err := s.Generate("")
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	if reason == sample.StopMaxLen {
		return name + " (truncated)"
	}
	return name
}
