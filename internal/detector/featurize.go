package detector

import (
	"regexp"
	"strings"
)

// Sentinel feature tokens that replace UPI links before featurization. The
// classifiers were trained with these exact strings in their vocabulary.
const (
	SentinelValidUPI   = "valid_upi"
	SentinelInvalidUPI = "invalid_upi"
)

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Preprocess reduces a raw input to the string that gets featurized: UPI
// links collapse to one of the two sentinels, anything else keeps only the
// part before the first dot, lower-cased.
func Preprocess(name string) string {
	if IsUPIURL(name) {
		if IsValidUPIURL(name) {
			return SentinelValidUPI
		}

		return SentinelInvalidUPI
	}

	head, _, _ := strings.Cut(name, ".")

	return strings.ToLower(head)
}

// Bigrams converts a preprocessed domain into its overlapping 2-character
// substrings, left to right. Sentinels pass through as a single token, and a
// cleaned input shorter than 2 characters yields no tokens.
func Bigrams(name string) []string {
	if name == SentinelValidUPI || name == SentinelInvalidUPI {
		return []string{name}
	}

	cleaned := nonAlnum.ReplaceAllString(name, "")
	if len(cleaned) < 2 {
		return nil
	}

	grams := make([]string, 0, len(cleaned)-1)
	for i := 0; i+2 <= len(cleaned); i++ {
		grams = append(grams, cleaned[i:i+2])
	}

	return grams
}

// FeatureText produces the exact space-joined feature string handed to both
// classifiers for the given raw input.
func FeatureText(name string) string {
	return strings.Join(Bigrams(Preprocess(name)), " ")
}
