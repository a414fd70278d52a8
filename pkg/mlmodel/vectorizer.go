package mlmodel

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Vectorizer is a frozen TF-IDF vectorizer over bigram tokens. The vocabulary
// and IDF weights are fixed at export time; unknown tokens are ignored by
// Transform and map to the reserved index 0 in TokenIndex.
type Vectorizer struct {
	// vocabulary maps a token to its column in the feature vector.
	vocabulary map[string]int
	// idf holds one inverse-document-frequency weight per column.
	idf []float64
}

// vectorizerFile is the on-disk JSON layout of an exported vectorizer.
type vectorizerFile struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// LoadVectorizer reads a vectorizer artifact from the given path. It validates
// that every vocabulary column has a matching IDF weight.
func LoadVectorizer(path string) (*Vectorizer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read vectorizer artifact: %w", err)
	}

	var f vectorizerFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("could not decode vectorizer artifact: %w", err)
	}
	if len(f.Vocabulary) != len(f.IDF) {
		return nil, fmt.Errorf("vectorizer artifact mismatch: %d vocabulary entries, %d idf weights",
			len(f.Vocabulary), len(f.IDF))
	}
	for tok, col := range f.Vocabulary {
		if col < 0 || col >= len(f.IDF) {
			return nil, fmt.Errorf("vectorizer artifact mismatch: token %q has column %d out of range", tok, col)
		}
	}

	return &Vectorizer{vocabulary: f.Vocabulary, idf: f.IDF}, nil
}

// NewVectorizer constructs a vectorizer from an in-memory vocabulary and IDF
// table. It is mainly useful in tests.
func NewVectorizer(vocabulary map[string]int, idf []float64) *Vectorizer {
	return &Vectorizer{vocabulary: vocabulary, idf: idf}
}

// Size returns the number of columns in the feature vector.
func (v *Vectorizer) Size() int { return len(v.idf) }

// TokenIndex maps a token to its 1-based sequence index. Index 0 is reserved
// for unknown tokens, matching the padding value used by the sequence model.
func (v *Vectorizer) TokenIndex(token string) int {
	if col, ok := v.vocabulary[token]; ok {
		return col + 1
	}

	return 0
}

// Transform converts a whitespace-separated feature text into a dense,
// L2-normalized TF-IDF vector. Tokens outside the vocabulary are dropped.
func (v *Vectorizer) Transform(text string) []float64 {
	x := make([]float64, len(v.idf))
	for _, token := range strings.Fields(text) {
		if col, ok := v.vocabulary[token]; ok {
			x[col] += v.idf[col]
		}
	}

	var norm float64
	for _, val := range x {
		norm += val * val
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range x {
			x[i] /= norm
		}
	}

	return x
}
