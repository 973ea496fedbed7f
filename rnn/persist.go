package rnn

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// denseData is the serializable form of one weight matrix.
type denseData struct {
	Rows, Cols int
	Data       []float64
}

// networkData is the gob container. Only numeric weight data is written.
type networkData struct {
	VocabSize  int
	HiddenSize int
	Params     []denseData // Network.parameters order
}

// Save persists the network weights to path using gob.
func (n *Network) Save(path string) error {
	data := networkData{
		VocabSize:  n.VocabSize,
		HiddenSize: n.HiddenSize,
	}
	for _, p := range n.parameters() {
		r, c := p.Dims()
		raw := mat.DenseCopyOf(p).RawMatrix()
		d := denseData{Rows: r, Cols: c, Data: make([]float64, len(raw.Data))}
		copy(d.Data, raw.Data)
		data.Params = append(data.Params, d)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rnn: save: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(data); err != nil {
		return fmt.Errorf("rnn: save %s: %w", path, err)
	}
	return nil
}

// Load reads a network previously written by Save.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rnn: load: %w", err)
	}
	defer f.Close()

	var data networkData
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("rnn: load %s: %w", path, err)
	}

	n := &Network{
		VocabSize:  data.VocabSize,
		HiddenSize: data.HiddenSize,
		Cell: &LSTMCell{
			InputSize:  data.VocabSize,
			HiddenSize: data.HiddenSize,
		},
	}
	targets := []**mat.Dense{
		&n.Cell.Wf, &n.Cell.Wi, &n.Cell.Wg, &n.Cell.Wo,
		&n.Cell.Bf, &n.Cell.Bi, &n.Cell.Bg, &n.Cell.Bo,
		&n.Why, &n.By,
	}
	if len(data.Params) != len(targets) {
		return nil, fmt.Errorf("rnn: load %s: expected %d weight matrices, got %d",
			path, len(targets), len(data.Params))
	}
	for i, d := range data.Params {
		if len(d.Data) != d.Rows*d.Cols {
			return nil, fmt.Errorf("rnn: load %s: weight %d has %d values for a %dx%d matrix",
				path, i, len(d.Data), d.Rows, d.Cols)
		}
		*targets[i] = mat.NewDense(d.Rows, d.Cols, d.Data)
	}
	return n, nil
}
