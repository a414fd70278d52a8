// Package detector implements phishing-risk detection for domains and UPI
// payment links: a heuristic layer (homoglyph patterns, UPI validation) that
// short-circuits an ML ensemble (bag-of-bigrams + sequence classifier).
package detector

import (
	"context"
	"fmt"

	"qrguard/internal/config"
	"qrguard/pkg/domain"
	"qrguard/pkg/metrics"
	"qrguard/pkg/mlmodel"
)

// phishingThreshold is the strict lower bound on the ensemble probability for
// a phishing verdict. Exactly 0.5 is not phishing.
const phishingThreshold = 0.5

// Options locate the frozen model artifacts on disk.
type Options struct {
	// VectorizerPath is the JSON artifact of the frozen bigram vectorizer.
	VectorizerPath string
	// ForestPath is the JSON artifact of the random-forest classifier.
	ForestPath string
	// LSTMPath is the JSON artifact of the sequence classifier.
	LSTMPath string
}

// NewOptions constructs an Options value from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		VectorizerPath: cfg.Detector.VectorizerPath,
		ForestPath:     cfg.Detector.ForestPath,
		LSTMPath:       cfg.Detector.LSTMPath,
	}
}

// Detector scores domains and URLs for phishing risk. The two scorers are
// read-only after construction, so a single Detector is safe for concurrent
// use.
type Detector struct {
	bag Scorer
	seq Scorer
}

// New creates a Detector from two already-constructed scorers. Tests use this
// to substitute stub scorers for the real models.
func New(bag, seq Scorer) *Detector {
	return &Detector{bag: bag, seq: seq}
}

// NewFromArtifacts loads the three frozen artifacts and builds a Detector.
// A missing or corrupt artifact is a construction failure; there is no
// fallback scoring path.
func NewFromArtifacts(opts Options) (*Detector, error) {
	vec, err := mlmodel.LoadVectorizer(opts.VectorizerPath)
	if err != nil {
		return nil, fmt.Errorf("could not load vectorizer: %w", err)
	}
	forest, err := mlmodel.LoadForest(opts.ForestPath)
	if err != nil {
		return nil, fmt.Errorf("could not load forest: %w", err)
	}
	net, err := mlmodel.LoadLSTM(opts.LSTMPath)
	if err != nil {
		return nil, fmt.Errorf("could not load lstm: %w", err)
	}

	return New(NewBagScorer(vec, forest), NewSequenceScorer(vec, net)), nil
}

// Detect scores a batch of inputs. Items are independent and the output order
// matches the input order.
func (d *Detector) Detect(ctx context.Context, names []string) ([]domain.DetectionRecord, error) {
	records := make([]domain.DetectionRecord, 0, len(names))
	for _, name := range names {
		rec, err := d.DetectOne(ctx, name)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// DetectOne scores a single input. The dispatch order is fixed: UPI links are
// judged by the validator alone, then the homoglyph heuristic may flag the
// input without inference, and only otherwise does the ensemble run.
func (d *Detector) DetectOne(ctx context.Context, name string) (domain.DetectionRecord, error) {
	switch {
	case IsUPIURL(name):
		return d.upiRecord(name), nil
	case IsHomoglyphAttack(name):
		metrics.DetectionsTotal.WithLabelValues("heuristic", "phishing").Inc()

		return domain.DetectionRecord{
			Domain:     name,
			IsPhishing: true,
			Reason:     domain.ReasonHomoglyph,
		}, nil
	default:
		return d.ensembleRecord(ctx, name)
	}
}

func (d *Detector) upiRecord(name string) domain.DetectionRecord {
	if IsValidUPIURL(name) {
		metrics.DetectionsTotal.WithLabelValues("upi", "safe").Inc()

		return domain.DetectionRecord{Domain: name, IsPhishing: false, Reason: domain.ReasonValidUPI}
	}
	metrics.DetectionsTotal.WithLabelValues("upi", "phishing").Inc()

	return domain.DetectionRecord{Domain: name, IsPhishing: true, Reason: domain.ReasonInvalidUPI}
}

func (d *Detector) ensembleRecord(_ context.Context, name string) (domain.DetectionRecord, error) {
	text := FeatureText(name)

	bagProb, err := d.bag.Score(text)
	if err != nil {
		return domain.DetectionRecord{}, fmt.Errorf("could not score with bag classifier: %w", err)
	}
	seqProb, err := d.seq.Score(text)
	if err != nil {
		return domain.DetectionRecord{}, fmt.Errorf("could not score with sequence classifier: %w", err)
	}

	ensemble := (bagProb + seqProb) / 2
	phishing := ensemble > phishingThreshold

	reason := domain.ReasonLikelySafe
	verdict := "safe"
	if phishing {
		reason = domain.ReasonSuspicious
		verdict = "phishing"
	}
	metrics.DetectionsTotal.WithLabelValues("ensemble", verdict).Inc()

	return domain.DetectionRecord{
		Domain:       name,
		IsPhishing:   phishing,
		Reason:       reason,
		BagProb:      &bagProb,
		SeqProb:      &seqProb,
		EnsembleProb: &ensemble,
	}, nil
}
