package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cleverage/tools/pkg/deploy"
)

// RawVersionHandler serves the version information with null for missing
// values.
func RawVersionHandler(r *deploy.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, r.Raw())
	})
}

// APIVersionHandler serves the version information with <unknown> for missing
// values and an ISO 8601 date.
func APIVersionHandler(r *deploy.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, r.API())
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to write response", "err", err)
	}
}
