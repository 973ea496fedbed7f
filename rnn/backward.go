package rnn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Gradients accumulates parameter gradients across timesteps and samples.
// Field order mirrors Network.parameters.
type Gradients struct {
	Wf, Wi, Wg, Wo *mat.Dense
	Bf, Bi, Bg, Bo *mat.Dense
	Why, By        *mat.Dense
}

// NewGradients returns a zeroed gradient set shaped like n's parameters.
func (n *Network) NewGradients() *Gradients {
	return &Gradients{
		Wf: zerosLike(n.Cell.Wf), Wi: zerosLike(n.Cell.Wi),
		Wg: zerosLike(n.Cell.Wg), Wo: zerosLike(n.Cell.Wo),
		Bf: zerosLike(n.Cell.Bf), Bi: zerosLike(n.Cell.Bi),
		Bg: zerosLike(n.Cell.Bg), Bo: zerosLike(n.Cell.Bo),
		Why: zerosLike(n.Why), By: zerosLike(n.By),
	}
}

func (g *Gradients) list() []*mat.Dense {
	return []*mat.Dense{
		g.Wf, g.Wi, g.Wg, g.Wo,
		g.Bf, g.Bi, g.Bg, g.Bo,
		g.Why, g.By,
	}
}

// Scale multiplies every gradient by s (used to average over a mini-batch).
func (g *Gradients) Scale(s float64) {
	for _, m := range g.list() {
		m.Scale(s, m)
	}
}

// ClipNorm scales all gradients so their combined L2 norm is at most
// maxNorm. Returns the scale actually applied (1.0 when no clip).
func (g *Gradients) ClipNorm(maxNorm float64) float64 {
	if maxNorm <= 0 {
		return 1.0
	}
	sum := 0.0
	for _, m := range g.list() {
		n := mat.Norm(m, 2)
		sum += n * n
	}
	norm := math.Sqrt(sum)
	if norm <= maxNorm || norm == 0 {
		return 1.0
	}
	s := maxNorm / norm
	for _, m := range g.list() {
		m.Scale(s, m)
	}
	return s
}

// Accumulate runs forward plus full backpropagation through time over the
// first steps rows of one encoded sample, adding parameter gradients into g.
// It returns the sample's summed cross-entropy.
func (n *Network) Accumulate(g *Gradients, input, target *mat.Dense, steps int) float64 {
	caches, logits := n.forward(input, steps)

	loss := 0.0
	dhNext := mat.NewDense(n.HiddenSize, 1, nil)
	dcNext := mat.NewDense(n.HiddenSize, 1, nil)

	for t := steps - 1; t >= 0; t-- {
		l, dLogits := CrossEntropyWithIndex(logits[t], oneHotIndex(target, t))
		loss += l

		cache := caches[t]

		// Projection layer.
		g.Why.Add(g.Why, dot(dLogits, cache.h.T()))
		g.By.Add(g.By, dLogits)

		dh := add(dot(n.Why.T(), dLogits), dhNext)

		// Gate-output gradients.
		do := mulElem(dh, cache.tanhC)
		dc := add(mulElem(mulElem(dh, cache.o), apply(tanhPrime, cache.tanhC)), dcNext)
		df := mulElem(dc, cache.cPrev)
		di := mulElem(dc, cache.g)
		dg := mulElem(dc, cache.i)
		dcNext = mulElem(dc, cache.f)

		// Pre-activation gradients.
		daF := mulElem(df, apply(sigmoidPrime, cache.f))
		daI := mulElem(di, apply(sigmoidPrime, cache.i))
		daG := mulElem(dg, apply(tanhPrime, cache.g))
		daO := mulElem(do, apply(sigmoidPrime, cache.o))

		g.Wf.Add(g.Wf, dot(daF, cache.z.T()))
		g.Wi.Add(g.Wi, dot(daI, cache.z.T()))
		g.Wg.Add(g.Wg, dot(daG, cache.z.T()))
		g.Wo.Add(g.Wo, dot(daO, cache.z.T()))
		g.Bf.Add(g.Bf, daF)
		g.Bi.Add(g.Bi, daI)
		g.Bg.Add(g.Bg, daG)
		g.Bo.Add(g.Bo, daO)

		// Back through the concatenated [x; h] input; only the hidden part
		// flows to the previous timestep.
		dz := dot(n.Cell.Wf.T(), daF)
		dz.Add(dz, dot(n.Cell.Wi.T(), daI))
		dz.Add(dz, dot(n.Cell.Wg.T(), daG))
		dz.Add(dz, dot(n.Cell.Wo.T(), daO))
		dhNext = mat.DenseCopyOf(dz.Slice(n.VocabSize, n.VocabSize+n.HiddenSize, 0, 1))
	}
	return loss
}
