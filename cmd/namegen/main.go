package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/klauspost/cpuid/v2"

	"github.com/shw079/Species-Neural-Language-Model/corpus"
	"github.com/shw079/Species-Neural-Language-Model/params"
	"github.com/shw079/Species-Neural-Language-Model/rnn"
	"github.com/shw079/Species-Neural-Language-Model/sample"
	"github.com/shw079/Species-Neural-Language-Model/train"
)

var (
	dataPath = flag.String("data", "data/species.txt", "corpus file, one species name per line")
	epochs   = flag.Int("epochs", 0, "override number of training epochs")
	hidden   = flag.Int("hidden", 0, "override LSTM hidden size")
	seed     = flag.Uint64("seed", 42, "random seed for init, shuffling and sampling")
	prefix   = flag.String("prefix", "bacillus_", "prefix for the final candidate names")
	count    = flag.Int("count", 0, "override number of candidates to draw")
	savePath = flag.String("save", "", "write trained weights (gob) and vocabulary (json) here")
	loadPath = flag.String("load", "", "skip training and load weights saved earlier")
	cpuinfo  = flag.Bool("cpuinfo", false, "print CPU vector capabilities and exit")
)

func main() {
	flag.Parse()

	if *cpuinfo {
		printCPUInfo()
		return
	}

	cfg := params.Default()
	if *epochs > 0 {
		cfg.Epochs = *epochs
	}
	if *hidden > 0 {
		cfg.HiddenSize = *hidden
	}
	if *count > 0 {
		cfg.CandidateCount = *count
	}

	net, vocab, err := trainOrLoad(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printCandidates(net, vocab, cfg)
}

func trainOrLoad(cfg params.Config) (*rnn.Network, *corpus.Vocabulary, error) {
	if *loadPath != "" {
		net, err := rnn.Load(*loadPath)
		if err != nil {
			return nil, nil, err
		}
		vocab, err := corpus.ImportJSON(*loadPath + ".vocab.json")
		if err != nil {
			return nil, nil, err
		}
		if vocab.Size() != net.VocabSize {
			return nil, nil, fmt.Errorf("vocabulary has %d characters but model expects %d",
				vocab.Size(), net.VocabSize)
		}
		return net, vocab, nil
	}

	names, err := corpus.LoadNames(*dataPath)
	if err != nil {
		return nil, nil, err
	}
	vocab := corpus.BuildVocabulary(names)
	data := corpus.Encode(names, vocab)
	fmt.Printf("Corpus: %d names, %d characters, %d steps per sample\n",
		len(names), vocab.Size(), data.Steps)

	net := rnn.NewNetwork(vocab.Size(), cfg.HiddenSize, rand.NewPCG(*seed, *seed))
	tr := train.New(net, data, cfg, *seed)
	loss := tr.Train()
	fmt.Printf("Final loss: %.4f\n", loss)

	if *savePath != "" {
		if err := net.Save(*savePath); err != nil {
			return nil, nil, err
		}
		if err := vocab.ExportJSON(*savePath + ".vocab.json"); err != nil {
			return nil, nil, err
		}
		fmt.Printf("Saved weights to %s\n", *savePath)
	}
	return net, vocab, nil
}

// printCandidates draws cfg.CandidateCount names for the fixed prefix and
// prints the distinct ones. Duplicates collapse silently; order is the map's.
func printCandidates(net *rnn.Network, vocab *corpus.Vocabulary, cfg params.Config) {
	s := sample.New(net, vocab, *seed+1, cfg.MaxGenLen)

	set := make(map[string]struct{})
	truncated := 0
	for i := 0; i < cfg.CandidateCount; i++ {
		name, reason, err := s.Generate(*prefix)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if reason == sample.StopMaxLen {
			truncated++
		}
		set[name] = struct{}{}
	}

	fmt.Printf("\n%d distinct candidates for prefix %q:\n", len(set), *prefix)
	for name := range set {
		fmt.Println(" ", name)
	}
	if truncated > 0 {
		fmt.Printf("(%d draw(s) hit the %d-character limit)\n", truncated, cfg.MaxGenLen)
	}
}

func printCPUInfo() {
	fmt.Printf("cpu: %s (%d logical cores)\n", cpuid.CPU.BrandName, cpuid.CPU.LogicalCores)
	fmt.Printf("avx2=%v avx512f=%v fma3=%v\n",
		cpuid.CPU.Has(cpuid.AVX2), cpuid.CPU.Has(cpuid.AVX512F), cpuid.CPU.Has(cpuid.FMA3))
}
