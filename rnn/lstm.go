package rnn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LSTMCell holds the four gate weights over the concatenated [x; h] input.
// Shapes: W* are (hidden x input+hidden), b* are (hidden x 1).
type LSTMCell struct {
	InputSize  int
	HiddenSize int

	Wf, Wi, Wg, Wo *mat.Dense // forget, input, candidate, output gates
	Bf, Bi, Bg, Bo *mat.Dense
}

// NewLSTMCell draws gate weights from U(-1/sqrt(n), 1/sqrt(n)) where n is
// the concatenated input width. Biases start at zero.
func NewLSTMCell(inputSize, hiddenSize int, src rand.Source) *LSTMCell {
	n := inputSize + hiddenSize
	newGate := func() *mat.Dense {
		return mat.NewDense(hiddenSize, n, randomArray(hiddenSize*n, float64(n), src))
	}
	newBias := func() *mat.Dense {
		return mat.NewDense(hiddenSize, 1, nil)
	}
	return &LSTMCell{
		InputSize:  inputSize,
		HiddenSize: hiddenSize,
		Wf:         newGate(),
		Wi:         newGate(),
		Wg:         newGate(),
		Wo:         newGate(),
		Bf:         newBias(),
		Bi:         newBias(),
		Bg:         newBias(),
		Bo:         newBias(),
	}
}

// randomArray returns 'size' samples from U(-1/sqrt(v), 1/sqrt(v)).
func randomArray(size int, v float64, src rand.Source) []float64 {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(v),
		Max: 1 / math.Sqrt(v),
		Src: src,
	}
	data := make([]float64, size)
	for i := range data {
		data[i] = dist.Rand()
	}
	return data
}

// State carries the recurrent hidden and cell vectors between timesteps.
type State struct {
	H *mat.Dense // (hidden x 1)
	C *mat.Dense // (hidden x 1)
}

// NewState returns the all-zero state used at the start of a sequence.
func (cell *LSTMCell) NewState() *State {
	return &State{
		H: mat.NewDense(cell.HiddenSize, 1, nil),
		C: mat.NewDense(cell.HiddenSize, 1, nil),
	}
}

// stepCache keeps the intermediates of one forward step for backpropagation
// through time.
type stepCache struct {
	z          *mat.Dense // concatenated [x; hPrev]
	f, i, g, o *mat.Dense // gate activations
	c, cPrev   *mat.Dense
	tanhC      *mat.Dense
	h          *mat.Dense
}

// Step advances the cell by one (inputSize x 1) input column.
func (cell *LSTMCell) Step(x *mat.Dense, st *State) (*State, *stepCache) {
	z := vstack(x, st.H)

	f := apply(sigmoid, add(dot(cell.Wf, z), cell.Bf))
	i := apply(sigmoid, add(dot(cell.Wi, z), cell.Bi))
	g := apply(tanhFn, add(dot(cell.Wg, z), cell.Bg))
	o := apply(sigmoid, add(dot(cell.Wo, z), cell.Bo))

	c := add(mulElem(f, st.C), mulElem(i, g))
	tanhC := apply(tanhFn, c)
	h := mulElem(o, tanhC)

	next := &State{H: h, C: c}
	return next, &stepCache{
		z: z, f: f, i: i, g: g, o: o,
		c: c, cPrev: st.C, tanhC: tanhC, h: h,
	}
}

func (cell *LSTMCell) clone() *LSTMCell {
	return &LSTMCell{
		InputSize:  cell.InputSize,
		HiddenSize: cell.HiddenSize,
		Wf:         mat.DenseCopyOf(cell.Wf),
		Wi:         mat.DenseCopyOf(cell.Wi),
		Wg:         mat.DenseCopyOf(cell.Wg),
		Wo:         mat.DenseCopyOf(cell.Wo),
		Bf:         mat.DenseCopyOf(cell.Bf),
		Bi:         mat.DenseCopyOf(cell.Bi),
		Bg:         mat.DenseCopyOf(cell.Bg),
		Bo:         mat.DenseCopyOf(cell.Bo),
	}
}
