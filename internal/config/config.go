package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure. It contains
// settings for the environment, HTTP server, reputation sources, the phishing
// detector artifacts, the local blacklist and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// MaxUploadBytes caps the size of an uploaded image on the scan endpoint
		MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" env-default:"5242880" yaml:"maxUploadBytes"`
	} `yaml:"http"`

	// Reputation contains credentials and tuning for the remote reputation sources.
	// A source with an empty API key is not consulted at all.
	Reputation struct {
		// VirusTotalAPIKey authenticates against the VirusTotal v3 API
		VirusTotalAPIKey string `env:"REPUTATION_VIRUSTOTAL_API_KEY" env-default:"" yaml:"virusTotalApiKey"`
		// VirusTotalBaseURL overrides the VirusTotal endpoint, mainly for tests
		VirusTotalBaseURL string `env:"REPUTATION_VIRUSTOTAL_BASE_URL" env-default:"https://www.virustotal.com" yaml:"virusTotalBaseUrl"` //nolint: lll
		// AnalysisDelay is the fixed wait between submitting a URL and polling its analysis
		AnalysisDelay time.Duration `env:"REPUTATION_ANALYSIS_DELAY" env-default:"1s" yaml:"analysisDelay"`
		// SafeBrowsingAPIKey authenticates against the threat-matching API
		SafeBrowsingAPIKey string `env:"REPUTATION_SAFEBROWSING_API_KEY" env-default:"" yaml:"safeBrowsingApiKey"`
		// SafeBrowsingEndpoint overrides the threat-matching endpoint, mainly for tests
		SafeBrowsingEndpoint string `env:"REPUTATION_SAFEBROWSING_ENDPOINT" env-default:"https://safebrowsing.googleapis.com/v4/threatMatches:find" yaml:"safeBrowsingEndpoint"` //nolint: lll
	} `yaml:"reputation"`

	// Detector locates the frozen model artifacts on disk
	Detector struct {
		// VectorizerPath is the exported bigram vectorizer artifact
		VectorizerPath string `env:"DETECTOR_VECTORIZER_PATH" env-default:"models/vectorizer.json" yaml:"vectorizerPath"`
		// ForestPath is the exported random-forest artifact
		ForestPath string `env:"DETECTOR_FOREST_PATH" env-default:"models/forest.json" yaml:"forestPath"`
		// LSTMPath is the exported sequence-model artifact
		LSTMPath string `env:"DETECTOR_LSTM_PATH" env-default:"models/lstm.json" yaml:"lstmPath"`
	} `yaml:"detector"`

	// Safety configures the local blacklist consulted before any remote lookup
	Safety struct {
		// Blacklist entries are matched as substrings of the URL host
		Blacklist []string `env:"SAFETY_BLACKLIST" env-default:"malicious.com,phishing-site.com,scam-website.net,evil-domain.org,dangerous-url.io,testmalicious.com,harmful-site.org" yaml:"blacklist"` //nolint: lll
	} `yaml:"safety"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
