package train

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/shw079/Species-Neural-Language-Model/corpus"
	"github.com/shw079/Species-Neural-Language-Model/params"
	"github.com/shw079/Species-Neural-Language-Model/rnn"
)

func testConfig() params.Config {
	cfg := params.Default()
	cfg.HiddenSize = 12
	cfg.Epochs = 40
	cfg.BatchSize = 2
	cfg.LearningRate = 5e-3
	cfg.CheckpointEvery = 0 // keep tests quiet
	cfg.MaxGenLen = 30
	return cfg
}

func testDataset(t *testing.T) *corpus.Dataset {
	t.Helper()
	raw := []string{
		"Bacillus subtilis",
		"Bacillus cereus",
		"Escherichia coli",
		"Listeria innocua",
		"Vibrio cholerae",
		"Yersinia pestis",
	}
	names := make([]string, len(raw))
	for i, r := range raw {
		names[i] = corpus.Normalize(r)
	}
	return corpus.Encode(names, corpus.BuildVocabulary(names))
}

func TestTrainReducesLoss(t *testing.T) {
	cfg := testConfig()
	data := testDataset(t)
	net := rnn.NewNetwork(data.Vocab.Size(), cfg.HiddenSize, rand.NewPCG(42, 42))
	tr := New(net, data, cfg, 42)

	before := tr.Evaluate()
	final := tr.Train()
	after := tr.Evaluate()

	if math.IsNaN(final) || math.IsNaN(after) {
		t.Fatalf("loss went NaN: final=%v eval=%v", final, after)
	}
	if after >= before {
		t.Fatalf("loss did not improve: before=%.4f after=%.4f", before, after)
	}
}

func TestTrainDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Epochs = 10

	run := func() float64 {
		data := testDataset(t)
		net := rnn.NewNetwork(data.Vocab.Size(), cfg.HiddenSize, rand.NewPCG(7, 7))
		return New(net, data, cfg, 7).Train()
	}

	if a, b := run(), run(); a != b {
		t.Fatalf("identical seeds trained to different losses: %v vs %v", a, b)
	}
}

func TestTrainSkipsDegenerateSamples(t *testing.T) {
	cfg := testConfig()
	cfg.Epochs = 3

	names := []string{corpus.Normalize("ecoli"), corpus.Normalize("")}
	data := corpus.Encode(names, corpus.BuildVocabulary(names))
	net := rnn.NewNetwork(data.Vocab.Size(), cfg.HiddenSize, rand.NewPCG(1, 1))

	final := New(net, data, cfg, 1).Train()
	if math.IsNaN(final) || math.IsInf(final, 0) {
		t.Fatalf("degenerate sample broke training: %v", final)
	}
}

func TestEvaluateMatchesLossScale(t *testing.T) {
	cfg := testConfig()
	data := testDataset(t)
	net := rnn.NewNetwork(data.Vocab.Size(), cfg.HiddenSize, rand.NewPCG(3, 3))
	tr := New(net, data, cfg, 3)

	// An untrained model's mean per-step loss sits near log |V|.
	got := tr.Evaluate()
	want := math.Log(float64(data.Vocab.Size()))
	if math.Abs(got-want) > 1.0 {
		t.Fatalf("initial loss %.3f far from log|V|=%.3f", got, want)
	}
}
