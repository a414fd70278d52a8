package v1handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"qrguard/pkg/domain"
	"qrguard/pkg/serrors"
)

// allowedExtensions are the upload formats accepted by the scan endpoint.
var allowedExtensions = map[string]struct{}{ //nolint: gochecknoglobals
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// scanResponse is the reply for a successful QR scan.
type scanResponse struct {
	Results []domain.QRPayload `json:"results"`
}

// Scan handles POST /v1/scan: it accepts one uploaded image in the "file"
// multipart field and returns every decoded QR payload. An image without any
// QR code yields 404, a missing file or unsupported extension 400.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "file exceeds %d bytes", h.opts.MaxUploadBytes))

			return
		}
		writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "no file uploaded"))

		return
	}
	defer func() {
		_ = file.Close()
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "invalid file type"))

		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "could not read uploaded file"))

		return
	}

	payloads, err := h.deps.Decode(ctx, data)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, scanResponse{Results: payloads})
}
