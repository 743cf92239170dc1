package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"slices"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/storage"

	"github.com/gorilla/mux"
)

var extensionsByType = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// UploadEvidence stores a payment slip sent as the raw request body and
// returns the ref to submit with the payment.
func (h *Handler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !slices.Contains(h.opts.AllowedTypes, contentType) {
		writeError(w, r, fmt.Errorf("%w: content type %q is not accepted", domain.ErrInvalidInput, r.Header.Get("Content-Type")))
		return
	}

	filename := r.URL.Query().Get("filename")
	if filepath.Ext(filename) == "" {
		filename += extensionsByType[contentType]
	}
	ref := storage.NewRef(identityFrom(r.Context()).UserID, filename)

	body := http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := h.evidence.Save(r.Context(), ref, body, contentType); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrInvalidInput, h.opts.MaxUploadBytes))
			return
		}
		writeError(w, r, domain.Transient(err))
		return
	}

	writeJSON(w, http.StatusCreated, evidenceResponse{
		Ref: ref,
		URL: fmt.Sprintf("%s/api/v1/evidence/%s", h.opts.BaseURL, ref),
	})
}

// DownloadEvidence serves a slip to its uploader and to the parties of a
// booking it is attached to.
func (h *Handler) DownloadEvidence(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	if err := h.bookings.AuthorizeEvidence(r.Context(), identityFrom(r.Context()).UserID, ref); err != nil {
		writeError(w, r, err)
		return
	}
	file, err := h.evidence.Open(r.Context(), ref)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, fmt.Errorf("evidence %w", domain.ErrNotFound))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	for ct, ext := range extensionsByType {
		if filepath.Ext(ref) == ext {
			contentType = ct
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = io.Copy(w, file)
}
