package handler

import (
	"errors"
	"net/http"

	"github.com/school-directory/internal/application/image"
	"github.com/school-directory/internal/domain"
)

// UploadHandler accepts school images.
type UploadHandler struct {
	svc      image.Service
	maxBytes int64
}

func NewUploadHandler(svc image.Service, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = image.DefaultMaxBytes
	}
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Headroom for multipart framing around the file part.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	img, err := h.svc.Upload(r.Context(), image.UploadInput{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, domain.Reason(err))
			return
		}
		writeServiceError(w, err, "Upload failed")
		return
	}
	writeJSON(w, http.StatusOK, UploadEnvelope{Success: true, FileName: img.FileName, URL: img.URL})
}
