package domain

// SafetyReport is the merged outcome of checking one URL against the local
// blacklist and the configured reputation sources.
type SafetyReport struct {
	// IsSafe is true only if every source that produced an opinion reported
	// the URL as safe. Sources without an opinion are excluded.
	IsSafe bool `json:"is_safe"`
	// Details maps source names to their raw findings (analysis stats, threat
	// matches, blacklist hit), whatever each source returned.
	Details map[string]any `json:"details"`
}

// SourceReport is a single reputation source's opinion about a URL. A nil
// *SourceReport means the source had no opinion and must not count against
// the safety conjunction.
type SourceReport struct {
	// Source is the name the report is filed under in SafetyReport.Details.
	Source string
	// Safe is this source's verdict.
	Safe bool
	// Details carries the source's raw findings for diagnostics.
	Details any
}
