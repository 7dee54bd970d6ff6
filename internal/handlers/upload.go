package handlers

import (
	"errors"
	"net/http"

	"github.com/tubeport/backend/internal/auth"
	"github.com/tubeport/backend/internal/logging"
	"github.com/tubeport/backend/internal/models"
	"github.com/tubeport/backend/internal/uploads"
)

// maxMultipartMemory bounds how much of the multipart form is held in memory;
// larger file parts spill to temporary files.
const maxMultipartMemory = 32 << 20

// UploadHandler gates the upload form behind the channel eligibility check
// and relays submitted files upstream.
type UploadHandler struct {
	Provider Provider
	Relay    UploadRelay
	Limiter  RateLimiter
}

type uploadSuccessData struct {
	VideoID string
}

// Handle dispatches GET (form) and POST (submission) for /upload.
func (h UploadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.form(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// form runs the eligibility check and renders the upload form or the
// ineligibility page. Check failures fail closed: the user is treated as
// ineligible and the error is only logged.
func (h UploadHandler) form(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	eligible, err := h.Provider.HasChannel(ctx, session.Bundle)
	if err != nil {
		logger.Error("channel eligibility check failed, treating as ineligible", "error", err)
		eligible = false
	}

	if !eligible {
		renderPage(ctx, w, http.StatusOK, "no_channel.html", nil)
		return
	}

	renderPage(ctx, w, http.StatusOK, "upload.html", nil)
}

func (h UploadHandler) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	session, ok := auth.SessionFromContext(ctx)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if !allowRequest(h.Limiter, r, "upload") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many uploads, slow down")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid upload form")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "a video file is required")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		respondError(ctx, w, http.StatusBadRequest, "the video file is empty")
		return
	}

	upload := models.Upload{
		FileName:    header.Filename,
		Size:        header.Size,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	receipt, err := h.Relay.Do(ctx, session.Bundle, upload, file)
	if err != nil {
		var storageErr *uploads.StorageError
		var uploadErr *uploads.UploadError
		switch {
		case errors.As(err, &storageErr):
			respondError(ctx, w, http.StatusInternalServerError, "could not store the upload locally")
		case errors.As(err, &uploadErr):
			respondError(ctx, w, http.StatusInternalServerError, "the video host rejected the upload")
		default:
			logger.Error("upload relay failed", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	renderPage(ctx, w, http.StatusOK, "upload_success.html", uploadSuccessData{VideoID: receipt.VideoID})
}
