package rnn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam applies bias-corrected Adam updates to a network's parameters.
// Moment estimates are kept per parameter in Network.parameters order.
type Adam struct {
	Beta1 float64
	Beta2 float64
	Eps   float64

	t    int
	m, v []*mat.Dense
}

// NewAdam builds optimizer state shaped like n's parameters.
func NewAdam(n *Network, beta1, beta2, eps float64) *Adam {
	params := n.parameters()
	m := make([]*mat.Dense, len(params))
	v := make([]*mat.Dense, len(params))
	for i, p := range params {
		m[i] = zerosLike(p)
		v[i] = zerosLike(p)
	}
	return &Adam{Beta1: beta1, Beta2: beta2, Eps: eps, m: m, v: v}
}

// Step applies one update to n with gradients g at learning rate lr.
func (a *Adam) Step(n *Network, g *Gradients, lr float64) {
	a.t++
	params := n.parameters()
	grads := g.list()
	for i := range params {
		adamUpdateInPlace(params[i], grads[i], a.m[i], a.v[i], a.t,
			lr, a.Beta1, a.Beta2, a.Eps)
	}
}

// p -= lr * mhat / (sqrt(vhat)+eps) with bias correction.
func adamUpdateInPlace(
	p, g, m, v *mat.Dense,
	t int,
	lr, beta1, beta2, eps float64,
) {
	pr, pc := p.Dims()
	if gr, gc := g.Dims(); gr != pr || gc != pc {
		panic("adamUpdateInPlace: grad shape mismatch")
	}
	b1t := math.Pow(beta1, float64(t))
	b2t := math.Pow(beta2, float64(t))
	c1 := 1.0 / (1.0 - b1t)
	c2 := 1.0 / (1.0 - b2t)
	for i := 0; i < pr; i++ {
		for j := 0; j < pc; j++ {
			gij := g.At(i, j)
			mij := beta1*m.At(i, j) + (1.0-beta1)*gij
			vij := beta2*v.At(i, j) + (1.0-beta2)*gij*gij
			mhat := mij * c1
			vhat := vij * c2
			pij := p.At(i, j) - lr*mhat/(math.Sqrt(vhat)+eps)
			m.Set(i, j, mij)
			v.Set(i, j, vij)
			p.Set(i, j, pij)
		}
	}
}
