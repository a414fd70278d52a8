// Package reputation defines the abstraction for remote URL reputation
// sources consulted during a safety check.
package reputation

import (
	"context"

	"qrguard/pkg/domain"
)

// Source is a single remote reputation provider. Implementations query the
// provider about one URL and return its opinion.
//
// A (nil, nil) return means the source has no opinion about the URL; the
// caller must exclude it from the safety conjunction rather than treat it as
// unsafe. An error degrades the source the same way, but is logged.
type Source interface {
	// Name identifies the source in reports and metrics.
	Name() string
	// Check queries the provider about the given URL.
	Check(ctx context.Context, URL string) (*domain.SourceReport, error)
}
