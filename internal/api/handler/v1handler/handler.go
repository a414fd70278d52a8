// Package v1handler implements the v1 HTTP API: QR scanning, URL safety
// checks and phishing detection.
package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"qrguard/pkg/domain"
	"qrguard/pkg/logger"
	"qrguard/pkg/serrors"
)

// Detector scores a batch of domains/URLs for phishing risk.
type Detector interface {
	Detect(ctx context.Context, names []string) ([]domain.DetectionRecord, error)
}

// SafetyChecker merges blacklist and reputation lookups for one URL.
type SafetyChecker interface {
	Check(ctx context.Context, rawURL string) (*domain.SafetyReport, error)
}

// DecodeFunc extracts QR payloads from image bytes.
type DecodeFunc func(ctx context.Context, data []byte) ([]domain.QRPayload, error)

// Deps are the collaborators the handlers dispatch to. Tests substitute
// fakes for any of them.
type Deps struct {
	Detector Detector
	Checker  SafetyChecker
	Decode   DecodeFunc
}

// Options tune request handling limits.
type Options struct {
	// MaxUploadBytes caps the size of an uploaded image on the scan endpoint.
	MaxUploadBytes int64
}

// Handler serves the v1 routes.
type Handler struct {
	deps Deps
	opts Options
}

// New creates a Handler with the given collaborators and options.
func New(deps Deps, opts Options) *Handler {
	return &Handler{deps: deps, opts: opts}
}

// Register attaches the v1 routes to the given router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/scan", h.Scan).Methods(http.MethodPost)
	r.HandleFunc("/check-safety", h.CheckSafety).Methods(http.MethodPost)
	r.HandleFunc("/detect", h.Detect).Methods(http.MethodPost)
}

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(ctx, "could not write response", zap.Error(err))
	}
}

// writeError maps semantic error kinds to HTTP status codes. Unknown errors
// become opaque 500s so internals never leak to clients.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, serrors.ErrBadRequest):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, serrors.ErrNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, serrors.ErrRateLimited):
		status = http.StatusTooManyRequests
		msg = err.Error()
	default:
		logger.Error(ctx, "request failed", zap.Error(err))
	}

	writeJSON(ctx, w, status, errorResponse{Error: msg})
}
