package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/video"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var (
		validationErr *video.ValidationError
		authErr       *video.AuthError
		notFoundErr   *video.NotFoundError
		filterErr     *video.UnsupportedFilterError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &filterErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the structured failure body for err.
// Store failures are logged with their cause; the client gets the short message only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{OK: false, Error: err.Error()}

	var validationErr *video.ValidationError
	if errors.As(err, &validationErr) {
		resp.Reason = validationErr.Reason
	}

	var storeErr *video.StoreError
	switch {
	case errors.As(err, &storeErr):
		RecordStoreError(storeErr.Op)
		log.Error().
			Err(storeErr.Err).
			Str("op", storeErr.Op).
			Str("request_id", requestIDFrom(r.Context())).
			Msg("Store operation failed")
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).Msg("Request failed")
		resp.Error = "Internal server error"
	}

	writeJSON(w, status, resp)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{OK: false, Error: "Not found"})
}

// handleMethodNotAllowed answers a known API path hit with the wrong method.
// Other paths only match the GET-only static catch-all, so they are a 404.
func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if !isAPIPath(r.URL.Path) {
		handleNotFound(w, r)
		return
	}
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{OK: false, Error: "Method not allowed"})
}

func isAPIPath(p string) bool {
	p = strings.TrimPrefix(p, "/api")
	return p == "/health" || p == "/videos" || strings.HasPrefix(p, "/videos/")
}
