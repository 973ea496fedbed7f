package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Vocabulary is the character<->index bijection a model is trained against.
// It is fixed for the lifetime of the trained weights.
type Vocabulary struct {
	runes   []rune
	indices map[rune]int
}

// BuildVocabulary collects the distinct runes of the normalized names.
// The terminator is always a member. Indices are assigned in sorted rune
// order so the bijection is stable across runs.
func BuildVocabulary(names []string) *Vocabulary {
	seen := map[rune]bool{Terminator: true}
	for _, n := range names {
		for _, r := range n {
			seen[r] = true
		}
	}
	runes := make([]rune, 0, len(seen))
	for r := range seen {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return newVocabulary(runes)
}

func newVocabulary(runes []rune) *Vocabulary {
	indices := make(map[rune]int, len(runes))
	for i, r := range runes {
		indices[r] = i
	}
	return &Vocabulary{runes: runes, indices: indices}
}

// Size returns |V|.
func (v *Vocabulary) Size() int { return len(v.runes) }

// Index returns the position of r, or -1 when r is out of vocabulary.
func (v *Vocabulary) Index(r rune) int {
	i, ok := v.indices[r]
	if !ok {
		return -1
	}
	return i
}

// Rune returns the character stored at index i.
func (v *Vocabulary) Rune(i int) rune { return v.runes[i] }

// TerminatorIndex returns the index of the terminator symbol.
func (v *Vocabulary) TerminatorIndex() int { return v.indices[Terminator] }

// OneHot returns a (V x 1) one-hot column for r.
func (v *Vocabulary) OneHot(r rune) (*mat.Dense, error) {
	i := v.Index(r)
	if i < 0 {
		return nil, fmt.Errorf("vocabulary: unknown character %q", r)
	}
	col := mat.NewDense(v.Size(), 1, nil)
	col.Set(i, 0, 1)
	return col, nil
}

// DecodeRow returns the active index of row t of a one-hot sequence matrix,
// or -1 for an all-zero padding row.
func DecodeRow(m *mat.Dense, t int) int {
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		if m.At(t, j) == 1 {
			return j
		}
	}
	return -1
}

// vocabularyJSON is the on-disk form, mirroring the CharToIndex/IndexToChar
// pair kept in memory.
type vocabularyJSON struct {
	CharToIndex map[string]int `json:"CharToIndex"`
	IndexToChar []string       `json:"IndexToChar"`
}

// ExportJSON writes the bijection to path so a saved model can be reloaded
// with the exact vocabulary it was trained on.
func (v *Vocabulary) ExportJSON(path string) error {
	data := vocabularyJSON{
		CharToIndex: make(map[string]int, len(v.runes)),
		IndexToChar: make([]string, len(v.runes)),
	}
	for i, r := range v.runes {
		data.CharToIndex[string(r)] = i
		data.IndexToChar[i] = string(r)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vocabulary: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ImportJSON loads a vocabulary previously written by ExportJSON.
func ImportJSON(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	defer f.Close()

	var data vocabularyJSON
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("vocabulary: decode %s: %w", path, err)
	}
	runes := make([]rune, len(data.IndexToChar))
	for i, s := range data.IndexToChar {
		rs := []rune(s)
		if len(rs) != 1 {
			return nil, fmt.Errorf("vocabulary: entry %d is not a single character: %q", i, s)
		}
		runes[i] = rs[0]
	}
	return newVocabulary(runes), nil
}
