// Package virustotal provides a reputation.Source implementation backed by
// the VirusTotal v3 API. A URL is first submitted for analysis; after a fixed
// delay the single analysis report is fetched and judged.
package virustotal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"qrguard/pkg/domain"
	"qrguard/pkg/reputation"
	"qrguard/pkg/serrors"
)

// SourceName is the key VirusTotal findings are filed under in safety reports.
const SourceName = "virustotal"

// AnalysisStats are the aggregated engine verdicts of one URL analysis.
type AnalysisStats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
}

// Client talks to the VirusTotal REST API and fulfills the reputation.Source
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to VirusTotal
	baseURL    string       // baseURL is the API root, overridable for tests
	apiKey     string       // apiKey is the x-apikey credential

	// analysisDelay is the fixed wait between submitting a URL and polling
	// its analysis. The remote service processes submissions asynchronously;
	// this is a crude wait, not a poll-until-ready loop.
	analysisDelay time.Duration
}

// New constructs a Client using the provided http.Client, API root, key and
// analysis delay.
func New(httpClient *http.Client, baseURL, apiKey string, analysisDelay time.Duration) *Client {
	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		analysisDelay: analysisDelay,
	}
}

// Name identifies the source in reports and metrics.
func (c *Client) Name() string { return SourceName }

// Check submits the URL for analysis, waits for the configured delay and
// fetches the analysis report. The URL is judged safe when no engine reported
// it malicious or suspicious.
func (c *Client) Check(ctx context.Context, URL string) (*domain.SourceReport, error) {
	analysisID, err := c.submit(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("could not submit URL: %w", err)
	}

	// give the remote analysis time to complete before the single poll
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for analysis: %w", ctx.Err())
	case <-time.After(c.analysisDelay):
	}

	stats, err := c.analysis(ctx, analysisID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch analysis: %w", err)
	}
	if stats == nil {
		// analysis exists but carries no stats yet: no opinion
		return nil, nil //nolint: nilnil
	}

	return &domain.SourceReport{
		Source:  SourceName,
		Safe:    stats.Malicious == 0 && stats.Suspicious == 0,
		Details: *stats,
	}, nil
}

// submit posts the URL for analysis and returns the analysis ID.
// https://docs.virustotal.com/reference/scan-url
func (c *Client) submit(ctx context.Context, URL string) (string, error) {
	form := url.Values{}
	form.Set("url", URL)

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.baseURL+"/api/v3/urls",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", serrors.With(serrors.ErrRateLimited, "rate limited: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("submit failed: %s", strings.TrimSpace(string(b)))
	}

	var submitResp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &submitResp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	if submitResp.Data.ID == "" {
		return "", fmt.Errorf("submit response carries no analysis ID")
	}

	return submitResp.Data.ID, nil
}

// analysis fetches the analysis report by ID and extracts its stats.
// https://docs.virustotal.com/reference/analysis
func (c *Client) analysis(ctx context.Context, analysisID string) (*AnalysisStats, error) {
	req, err := http.NewRequestWithContext(ctx,
		http.MethodGet,
		c.baseURL+"/api/v3/analyses/"+analysisID,
		nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, serrors.With(serrors.ErrNotFound, "analysis not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get analysis failed: %s", strings.TrimSpace(string(b)))
	}

	var rs struct {
		Data struct {
			Attributes struct {
				Stats *AnalysisStats `json:"last_analysis_stats"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return rs.Data.Attributes.Stats, nil
}

// Ensure Client conforms to the reputation.Source interface at compile time.
var _ reputation.Source = (*Client)(nil)
