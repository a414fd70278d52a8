package detector

import "regexp"

// homoglyphs maps each ASCII digit to the letters it visually substitutes
// for. Read-only after process start.
var homoglyphs = map[byte][]rune{
	'0': {'o', 'O'},
	'1': {'l', 'i', 'I'},
	'2': {'z', 'Z'},
	'3': {'e', 'E'},
	'4': {'a', 'A'},
	'5': {'s', 'S'},
	'6': {'b', 'G'},
	'7': {'t', 'T'},
	'8': {'b', 'B'},
	'9': {'g', 'q'},
}

// allowedDomains are known-good domains containing digits that must never be
// flagged by the digit heuristic.
var allowedDomains = map[string]struct{}{
	"zoom2u.com": {},
	"4chan.org":  {},
}

// Structural lookalike patterns, matched with a regex search rather than a
// full match.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[0-9]+[a-z]`),  // e.g. "g00gle"
	regexp.MustCompile(`[a-z]+[0-9]+`), // e.g. "go0gle123"
}

// IsHomoglyphAttack reports whether a domain looks like a digit-for-letter
// substitution attack. It is a cheap pre-filter run before model inference:
// allow-listed domains and UPI links are never flagged, any mapped digit
// flags immediately, and mixed alnum patterns flag as a fallback.
func IsHomoglyphAttack(name string) bool {
	if _, ok := allowedDomains[name]; ok {
		return false
	}
	if IsUPIURL(name) {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= '0' && c <= '9' {
			if _, ok := homoglyphs[c]; ok {
				return true
			}
		}
	}

	for _, p := range suspiciousPatterns {
		if p.MatchString(name) {
			return true
		}
	}

	return false
}
