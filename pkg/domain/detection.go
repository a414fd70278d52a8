package domain

// Detection reasons emitted by the phishing detector. The strings are part of
// the API surface and must stay stable.
const (
	ReasonValidUPI   = "Valid UPI URL"
	ReasonInvalidUPI = "Invalid UPI URL"
	ReasonHomoglyph  = "Homoglyph attack detected"
	ReasonSuspicious = "Suspicious domain"
	ReasonLikelySafe = "Likely safe"
)

// DetectionRecord is the immutable outcome of scoring a single domain or URL.
// The probability fields are set only when the ensemble path ran; for UPI and
// homoglyph verdicts they stay nil.
type DetectionRecord struct {
	// Domain is the original input string, unchanged.
	Domain string `json:"domain"`
	// IsPhishing is the final verdict for this input.
	IsPhishing bool `json:"is_phishing"`
	// Reason is a human-readable explanation of the verdict.
	Reason string `json:"reason"`

	// BagProb is the phishing probability from the bag-of-bigrams classifier.
	BagProb *float64 `json:"rf_phishing_prob,omitempty"`
	// SeqProb is the phishing probability from the sequence classifier.
	SeqProb *float64 `json:"lstm_phishing_prob,omitempty"`
	// EnsembleProb is the arithmetic mean of BagProb and SeqProb.
	EnsembleProb *float64 `json:"ensemble_phishing_prob,omitempty"`
}
