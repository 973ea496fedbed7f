package rnn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dense helpers shared by the forward and backward passes.
//
// m, n = matrix inputs
// o    = output

func dot(m, n mat.Matrix) *mat.Dense {
	r, _ := m.Dims()
	_, c := n.Dims()
	o := mat.NewDense(r, c, nil)
	o.Product(m, n)
	return o
}

func add(m, n mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Add(m, n)
	return o
}

func mulElem(m, n mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.MulElem(m, n)
	return o
}

func apply(fn func(i, j int, v float64) float64, m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Apply(fn, m)
	return o
}

func sigmoid(_, _ int, v float64) float64 {
	return 1.0 / (1.0 + math.Exp(-v))
}

func tanhFn(_, _ int, v float64) float64 {
	return math.Tanh(v)
}

// sigmoidPrime and tanhPrime take the already-activated value, not the
// pre-activation.
func sigmoidPrime(_, _ int, v float64) float64 {
	return v * (1.0 - v)
}

func tanhPrime(_, _ int, v float64) float64 {
	return 1.0 - v*v
}

// vstack concatenates two column vectors into one (ar+br x 1) column.
func vstack(a, b *mat.Dense) *mat.Dense {
	ar, _ := a.Dims()
	br, _ := b.Dims()
	o := mat.NewDense(ar+br, 1, nil)
	for i := 0; i < ar; i++ {
		o.Set(i, 0, a.At(i, 0))
	}
	for i := 0; i < br; i++ {
		o.Set(ar+i, 0, b.At(i, 0))
	}
	return o
}

// rowAsCol extracts row t of m as a column vector.
func rowAsCol(m *mat.Dense, t int) *mat.Dense {
	_, c := m.Dims()
	o := mat.NewDense(c, 1, nil)
	for j := 0; j < c; j++ {
		o.Set(j, 0, m.At(t, j))
	}
	return o
}

// oneHotIndex returns the active index of row t, or -1 for a padding row.
func oneHotIndex(m *mat.Dense, t int) int {
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		if m.At(t, j) == 1 {
			return j
		}
	}
	return -1
}

func zerosLike(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	return mat.NewDense(r, c, nil)
}

// ColVectorSoftmax applies a numerically stable softmax across the single
// column of a (r x 1) vector.
func ColVectorSoftmax(v *mat.Dense) *mat.Dense {
	r, c := v.Dims()
	if c != 1 {
		panic("ColVectorSoftmax expects a (r x 1) column vector")
	}
	out := mat.NewDense(r, 1, nil)
	mx := v.At(0, 0)
	for i := 1; i < r; i++ {
		if v.At(i, 0) > mx {
			mx = v.At(i, 0)
		}
	}
	sum := 0.0
	for i := 0; i < r; i++ {
		e := math.Exp(v.At(i, 0) - mx)
		out.Set(i, 0, e)
		sum += e
	}
	for i := 0; i < r; i++ {
		out.Set(i, 0, out.At(i, 0)/sum)
	}
	return out
}

// CrossEntropyWithIndex returns the negative log-likelihood of the gold
// index under softmax(logits), plus the gradient w.r.t. the logits.
func CrossEntropyWithIndex(logits *mat.Dense, gold int) (float64, *mat.Dense) {
	r, c := logits.Dims()
	if c != 1 {
		panic("CrossEntropyWithIndex expects (r x 1) logits vector")
	}
	prob := ColVectorSoftmax(logits)
	if gold < 0 || gold >= r {
		gold = 0
	}
	loss := -math.Log(prob.At(gold, 0) + 1e-12)
	grad := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		grad.Set(i, 0, prob.At(i, 0))
	}
	grad.Set(gold, 0, grad.At(gold, 0)-1.0)
	return loss, grad
}
