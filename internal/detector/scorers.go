package detector

import (
	"strings"

	"qrguard/pkg/mlmodel"
)

// BagScorer scores feature text with the frozen TF-IDF vectorizer and
// random-forest classifier.
type BagScorer struct {
	vec    *mlmodel.Vectorizer
	forest *mlmodel.Forest
}

// NewBagScorer wraps a loaded vectorizer and forest.
func NewBagScorer(vec *mlmodel.Vectorizer, forest *mlmodel.Forest) *BagScorer {
	return &BagScorer{vec: vec, forest: forest}
}

func (s *BagScorer) Score(featureText string) (float64, error) {
	return s.forest.PredictProba(s.vec.Transform(featureText)), nil
}

// SequenceScorer scores feature text with the frozen LSTM. Tokens map to
// their vocabulary index through the same vectorizer used by the bag path;
// unknown tokens map to the reserved index 0.
type SequenceScorer struct {
	vec *mlmodel.Vectorizer
	net *mlmodel.LSTM
}

// NewSequenceScorer wraps a loaded vectorizer and LSTM.
func NewSequenceScorer(vec *mlmodel.Vectorizer, net *mlmodel.LSTM) *SequenceScorer {
	return &SequenceScorer{vec: vec, net: net}
}

func (s *SequenceScorer) Score(featureText string) (float64, error) {
	tokens := strings.Fields(featureText)
	seq := make([]int, len(tokens))
	for i, tok := range tokens {
		seq[i] = s.vec.TokenIndex(tok)
	}

	return s.net.Predict(seq), nil
}

var (
	_ Scorer = (*BagScorer)(nil)
	_ Scorer = (*SequenceScorer)(nil)
)
