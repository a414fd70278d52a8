package v1handler

import (
	"encoding/json"
	"net/http"

	"qrguard/pkg/serrors"
)

// checkSafetyRequest is the body of POST /v1/check-safety.
type checkSafetyRequest struct {
	URL string `json:"url"`
}

// CheckSafety handles POST /v1/check-safety: it validates the URL and reports
// the merged verdict of the local blacklist and the reputation sources.
func (h *Handler) CheckSafety(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkSafetyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}
	if req.URL == "" {
		writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "no URL provided"))

		return
	}

	report, err := h.deps.Checker.Check(ctx, req.URL)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}
