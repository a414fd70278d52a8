package detector

// Scorer produces a phishing probability in [0,1] for a featurized input.
// Implementations must be deterministic and safe for concurrent use; the
// real scorers wrap frozen model artifacts, tests substitute stubs.
type Scorer interface {
	Score(featureText string) (float64, error)
}
