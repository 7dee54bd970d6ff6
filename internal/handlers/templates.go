package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/tubeport/backend/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func renderPage(ctx context.Context, w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logging.FromContext(ctx).Error("render page", "template", name, "error", err)
	}
}

// respondError writes a plain error message and logs it with the request
// context so operators can correlate failures.
func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "message", message)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "message", message)
	}

	http.Error(w, message, status)
}
