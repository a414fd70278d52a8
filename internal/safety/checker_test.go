package safety_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"qrguard/internal/safety"
	"qrguard/pkg/domain"
	"qrguard/pkg/logger"
	"qrguard/pkg/serrors"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	os.Exit(m.Run())
}

// fakeSource is a reputation source with a canned answer.
type fakeSource struct {
	name   string
	report *domain.SourceReport
	err    error
	calls  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Check(context.Context, string) (*domain.SourceReport, error) {
	f.calls++

	return f.report, f.err
}

func defaultOptions() safety.Options {
	return safety.Options{Blacklist: []string{"malicious.com", "phishing-site.com"}}
}

func TestChecker_InvalidURL(t *testing.T) {
	c := safety.New(defaultOptions())

	_, err := c.Check(context.Background(), "not a url")
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestChecker_BlacklistShortCircuits(t *testing.T) {
	src := &fakeSource{name: "remote", report: &domain.SourceReport{Source: "remote", Safe: true}}
	c := safety.New(defaultOptions(), src)

	report, err := c.Check(context.Background(), "https://sub.malicious.com/login")
	require.NoError(t, err)
	require.False(t, report.IsSafe)
	require.Contains(t, report.Details, "local_blacklist")
	require.Zero(t, src.calls, "a blacklist hit must not trigger remote lookups")

	hit, ok := report.Details["local_blacklist"].(safety.BlacklistHit)
	require.True(t, ok)
	require.Equal(t, "malicious.com", hit.Match)
}

func TestChecker_AllSourcesSafe(t *testing.T) {
	a := &fakeSource{name: "a", report: &domain.SourceReport{Source: "a", Safe: true, Details: "fine"}}
	b := &fakeSource{name: "b", report: &domain.SourceReport{Source: "b", Safe: true, Details: "fine"}}
	c := safety.New(defaultOptions(), a, b)

	report, err := c.Check(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.True(t, report.IsSafe)
	require.Len(t, report.Details, 2)
	require.Equal(t, 1, a.calls)
	require.Equal(t, 1, b.calls)
}

func TestChecker_OneUnsafeSourceWins(t *testing.T) {
	a := &fakeSource{name: "a", report: &domain.SourceReport{Source: "a", Safe: true}}
	b := &fakeSource{name: "b", report: &domain.SourceReport{Source: "b", Safe: false, Details: "bad"}}
	c := safety.New(defaultOptions(), a, b)

	report, err := c.Check(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.False(t, report.IsSafe)
}

func TestChecker_ErroredSourceIsExcluded(t *testing.T) {
	a := &fakeSource{name: "a", err: errors.New("network down")}
	b := &fakeSource{name: "b", report: &domain.SourceReport{Source: "b", Safe: true}}
	c := safety.New(defaultOptions(), a, b)

	report, err := c.Check(context.Background(), "https://example.com")
	require.NoError(t, err, "a failing source must not fail the check")
	require.True(t, report.IsSafe)
	require.NotContains(t, report.Details, "a")
}

func TestChecker_NoOpinionIsExcluded(t *testing.T) {
	a := &fakeSource{name: "a"} // nil report, nil error
	c := safety.New(defaultOptions(), a)

	report, err := c.Check(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.True(t, report.IsSafe, "with no opinions the conjunction is vacuously safe")
	require.Empty(t, report.Details)
}

func TestChecker_NoSources(t *testing.T) {
	c := safety.New(defaultOptions())

	report, err := c.Check(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.True(t, report.IsSafe)
}
