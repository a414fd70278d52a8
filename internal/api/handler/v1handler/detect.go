package v1handler

import (
	"encoding/json"
	"net/http"

	"qrguard/pkg/domain"
	"qrguard/pkg/serrors"
)

// detectRequest is the body of POST /v1/detect.
type detectRequest struct {
	Domains []string `json:"domains"`
}

// detectResponse carries one record per input domain, in input order.
type detectResponse struct {
	Results []domain.DetectionRecord `json:"results"`
}

// Detect handles POST /v1/detect: it scores a batch of domains/URLs with the
// phishing detector.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}
	if len(req.Domains) == 0 {
		writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "no domains provided"))

		return
	}

	records, err := h.deps.Detector.Detect(ctx, req.Domains)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, detectResponse{Results: records})
}
