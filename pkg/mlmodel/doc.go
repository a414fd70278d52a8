// Package mlmodel loads and evaluates the frozen model artifacts used by the
// phishing detector: a bigram vectorizer, a random-forest classifier and a
// 2-layer LSTM sequence classifier.
//
// Artifacts are exported from the training pipeline as JSON files and are
// strictly read-only after loading. All inference is deterministic: there is
// no dropout, no sampling and no parameter update at evaluation time.
package mlmodel
