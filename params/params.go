package params

// Config collects the hyperparameters of a training run. The original
// experiment hard-coded these as literals; they live in one struct so the
// command line can override them.
type Config struct {
	// Core model parameters
	HiddenSize int // LSTM hidden width

	// Optimization parameters
	Epochs       int // full passes over the corpus
	BatchSize    int // samples per optimizer step
	LearningRate float64
	AdamBeta1    float64 // default 0.9
	AdamBeta2    float64 // default 0.999
	AdamEps      float64 // default 1e-8
	GradClip     float64 // global-norm clip, <=0 disables

	// Diagnostics and generation
	CheckpointEvery int // print loss + one sample every N epochs (0 = never)
	MaxGenLen       int // hard cap on generated name length
	CandidateCount  int // names drawn for the final candidate set
}

// Default returns the values the experiment was tuned with.
func Default() Config {
	return Config{
		HiddenSize: 128,

		Epochs:       200,
		BatchSize:    32,
		LearningRate: 1e-3,
		AdamBeta1:    0.9,
		AdamBeta2:    0.999,
		AdamEps:      1e-8,
		GradClip:     1.0,

		CheckpointEvery: 10,
		MaxGenLen:       60,
		CandidateCount:  20,
	}
}
