package detector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"qrguard/internal/detector"
	"qrguard/pkg/domain"
)

// stubScorer returns a fixed probability and records the feature texts it saw.
type stubScorer struct {
	prob float64
	seen []string
}

func (s *stubScorer) Score(featureText string) (float64, error) {
	s.seen = append(s.seen, featureText)

	return s.prob, nil
}

func TestDetect_EndToEnd(t *testing.T) {
	// high ensemble probability so the non-heuristic case gets a phishing verdict
	det := detector.New(&stubScorer{prob: 0.9}, &stubScorer{prob: 0.7})

	records, err := det.Detect(context.Background(), []string{
		"g00gle.com",
		"zoom2u.com",
		"upi://pay?pa=alice@bank",
		"upi://pay?pa=bad",
	})
	require.NoError(t, err)
	require.Len(t, records, 4)

	require.Equal(t, "g00gle.com", records[0].Domain)
	require.True(t, records[0].IsPhishing)
	require.Equal(t, domain.ReasonHomoglyph, records[0].Reason)
	require.Nil(t, records[0].EnsembleProb, "heuristic verdicts carry no probabilities")

	// allow-listed, so it falls through to the ensemble
	require.Equal(t, "zoom2u.com", records[1].Domain)
	require.True(t, records[1].IsPhishing)
	require.Equal(t, domain.ReasonSuspicious, records[1].Reason)
	require.NotNil(t, records[1].BagProb)
	require.NotNil(t, records[1].SeqProb)
	require.NotNil(t, records[1].EnsembleProb)
	require.InDelta(t, 0.8, *records[1].EnsembleProb, 1e-12)

	require.False(t, records[2].IsPhishing)
	require.Equal(t, domain.ReasonValidUPI, records[2].Reason)
	require.Nil(t, records[2].EnsembleProb)

	require.True(t, records[3].IsPhishing)
	require.Equal(t, domain.ReasonInvalidUPI, records[3].Reason)
	require.Nil(t, records[3].EnsembleProb)
}

func TestDetect_ThresholdBoundary(t *testing.T) {
	// ensemble probability of exactly 0.5 must not be phishing
	det := detector.New(&stubScorer{prob: 0.5}, &stubScorer{prob: 0.5})

	rec, err := det.DetectOne(context.Background(), "example.com")
	require.NoError(t, err)
	require.False(t, rec.IsPhishing)
	require.Equal(t, domain.ReasonLikelySafe, rec.Reason)
	require.Equal(t, 0.5, *rec.EnsembleProb)

	// just above the threshold flips the verdict
	det = detector.New(&stubScorer{prob: 0.5}, &stubScorer{prob: 0.5000001})
	rec, err = det.DetectOne(context.Background(), "example.com")
	require.NoError(t, err)
	require.True(t, rec.IsPhishing)
	require.Equal(t, domain.ReasonSuspicious, rec.Reason)
}

func TestDetect_EnsembleMean(t *testing.T) {
	det := detector.New(&stubScorer{prob: 0.2}, &stubScorer{prob: 0.6})

	rec, err := det.DetectOne(context.Background(), "example.com")
	require.NoError(t, err)
	require.InDelta(t, 0.2, *rec.BagProb, 1e-12)
	require.InDelta(t, 0.6, *rec.SeqProb, 1e-12)
	require.InDelta(t, 0.4, *rec.EnsembleProb, 1e-12)
	require.False(t, rec.IsPhishing)
}

func TestDetect_BothScorersGetSameFeatureText(t *testing.T) {
	bag := &stubScorer{prob: 0.1}
	seq := &stubScorer{prob: 0.1}
	det := detector.New(bag, seq)

	_, err := det.DetectOne(context.Background(), "google.com")
	require.NoError(t, err)

	require.Equal(t, []string{"go oo og gl le"}, bag.seen)
	require.Equal(t, bag.seen, seq.seen, "both classifiers must receive the exact same feature text")
}

func TestDetect_ShortCircuitSkipsScorers(t *testing.T) {
	bag := &stubScorer{prob: 0.9}
	seq := &stubScorer{prob: 0.9}
	det := detector.New(bag, seq)

	_, err := det.DetectOne(context.Background(), "upi://pay?pa=alice@bank")
	require.NoError(t, err)
	_, err = det.DetectOne(context.Background(), "g00gle.com")
	require.NoError(t, err)

	require.Empty(t, bag.seen, "UPI and heuristic paths must not run the ensemble")
	require.Empty(t, seq.seen)
}

func TestDetect_OrderPreserved(t *testing.T) {
	det := detector.New(&stubScorer{prob: 0.1}, &stubScorer{prob: 0.1})

	in := []string{"one.com", "two.com", "three.com"}
	records, err := det.Detect(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, records, len(in))
	for i, name := range in {
		require.Equal(t, name, records[i].Domain)
	}
}
