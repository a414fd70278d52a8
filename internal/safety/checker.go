// Package safety implements the URL safety check: a local blacklist
// consulted first, then a conjunction over the configured remote reputation
// sources.
package safety

import (
	"context"

	"go.uber.org/zap"

	"qrguard/internal/config"
	"qrguard/pkg/domain"
	"qrguard/pkg/logger"
	"qrguard/pkg/metrics"
	"qrguard/pkg/reputation"
	"qrguard/pkg/serrors"
)

// localBlacklistKey is the details key used for blacklist hits.
const localBlacklistKey = "local_blacklist"

// Options configure the checker's local blacklist.
type Options struct {
	// Blacklist entries are matched as substrings of the URL host.
	Blacklist []string
}

// NewOptions constructs an Options value from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{Blacklist: cfg.Safety.Blacklist}
}

// Checker merges the local blacklist and the remote reputation sources into a
// single safety verdict per URL. All fields are read-only after construction,
// so a single Checker is safe for concurrent use.
type Checker struct {
	options Options
	sources []reputation.Source
}

// New creates a Checker over the given reputation sources. Sources are
// consulted in the order provided.
func New(options Options, sources ...reputation.Source) *Checker {
	return &Checker{options: options, sources: sources}
}

// Check validates and normalizes the URL, consults the blacklist and then
// every reputation source, and merges the answers.
//
// A blacklist hit is terminal: the URL is unsafe and no remote source is
// consulted. Otherwise the URL is safe only if every source that produced an
// opinion says so. A source that errors or has no opinion is excluded from
// the conjunction, never counted against safety.
func (c *Checker) Check(ctx context.Context, rawURL string) (*domain.SafetyReport, error) {
	URL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid URL")
	}

	host := HostOf(URL)
	if match := matchBlacklist(c.options.Blacklist, host); match != "" {
		logger.Info(ctx, "URL matched local blacklist",
			zap.String("url", URL),
			zap.String("match", match))

		return &domain.SafetyReport{
			IsSafe: false,
			Details: map[string]any{
				localBlacklistKey: BlacklistHit{
					Match:   match,
					Message: "URL is in the local blacklist",
				},
			},
		}, nil
	}

	report := &domain.SafetyReport{
		IsSafe:  true,
		Details: map[string]any{},
	}
	for _, src := range c.sources {
		rep, err := src.Check(ctx, URL)
		if err != nil {
			// degrade the source to "no opinion"; the check itself never fails
			logger.Warn(ctx, "reputation source failed",
				zap.String("source", src.Name()),
				zap.Error(err))
			metrics.ReputationLookupsTotal.WithLabelValues(src.Name(), "error").Inc()

			continue
		}
		if rep == nil {
			metrics.ReputationLookupsTotal.WithLabelValues(src.Name(), "no_opinion").Inc()

			continue
		}

		outcome := "safe"
		if !rep.Safe {
			outcome = "unsafe"
			report.IsSafe = false
		}
		metrics.ReputationLookupsTotal.WithLabelValues(src.Name(), outcome).Inc()
		report.Details[rep.Source] = rep.Details
	}

	return report, nil
}
