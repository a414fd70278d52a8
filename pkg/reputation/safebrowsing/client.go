// Package safebrowsing provides a reputation.Source implementation backed by
// the Safe Browsing threatMatches:find API.
package safebrowsing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"qrguard/pkg/domain"
	"qrguard/pkg/reputation"
	"qrguard/pkg/serrors"
)

// SourceName is the key threat-matching findings are filed under in safety
// reports.
const SourceName = "google_safebrowsing"

// threatTypes are the threat categories the lookup asks about.
var threatTypes = []string{ //nolint: gochecknoglobals
	"MALWARE",
	"SOCIAL_ENGINEERING",
	"UNWANTED_SOFTWARE",
	"POTENTIALLY_HARMFUL_APPLICATION",
}

// ThreatMatch is one reported match for the looked-up URL.
type ThreatMatch struct {
	ThreatType      string `json:"threatType"`
	PlatformType    string `json:"platformType"`
	ThreatEntryType string `json:"threatEntryType"`
	Threat          struct {
		URL string `json:"url"`
	} `json:"threat"`
}

// Client talks to the threat-matching REST API and fulfills the
// reputation.Source interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to the API
	endpoint   string       // endpoint is the threatMatches:find URL, overridable for tests
	apiKey     string       // apiKey is passed as the key query parameter
}

// New constructs a Client using the provided http.Client, endpoint and API key.
func New(httpClient *http.Client, endpoint, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// Name identifies the source in reports and metrics.
func (c *Client) Name() string { return SourceName }

// Check looks the URL up in the threat lists. The URL is judged safe when no
// threat matches are returned.
func (c *Client) Check(ctx context.Context, URL string) (*domain.SourceReport, error) {
	type threatEntry struct {
		URL string `json:"url"`
	}
	payload := map[string]any{
		"client": map[string]string{
			"clientId":      "qrguard",
			"clientVersion": "1.0",
		},
		"threatInfo": map[string]any{
			"threatTypes":      threatTypes,
			"platformTypes":    []string{"ANY_PLATFORM"},
			"threatEntryTypes": []string{"URL"},
			"threatEntries":    []threatEntry{{URL: URL}},
		},
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.endpoint+"?key="+c.apiKey,
		strings.NewReader(string(bodyBytes)))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, serrors.With(serrors.ErrRateLimited, "rate limited: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("lookup failed: %s", strings.TrimSpace(string(b)))
	}

	var rs struct {
		Matches []ThreatMatch `json:"matches"`
	}
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &domain.SourceReport{
		Source:  SourceName,
		Safe:    len(rs.Matches) == 0,
		Details: rs.Matches,
	}, nil
}

// Ensure Client conforms to the reputation.Source interface at compile time.
var _ reputation.Source = (*Client)(nil)
