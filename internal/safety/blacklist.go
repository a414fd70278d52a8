package safety

import "strings"

// BlacklistHit describes a local blacklist match for a checked URL.
type BlacklistHit struct {
	Match   string `json:"match"`
	Message string `json:"message"`
}

// matchBlacklist returns the first blacklist entry contained in the host, or
// an empty string when none matches. Entries match as substrings so that
// subdomains of a listed domain are caught too.
func matchBlacklist(entries []string, host string) string {
	for _, entry := range entries {
		if entry != "" && strings.Contains(host, entry) {
			return entry
		}
	}

	return ""
}
