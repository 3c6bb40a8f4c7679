package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/kozaktomas/card-generator/internal/cards"
	"github.com/kozaktomas/card-generator/internal/compose"
	"github.com/kozaktomas/card-generator/internal/config"
	"github.com/kozaktomas/card-generator/internal/database"
	"github.com/kozaktomas/card-generator/internal/imageio"
	"github.com/kozaktomas/card-generator/internal/printsheet"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, cards.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cards.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, cards.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, imageio.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cards.ErrEmptyCollection),
		errors.Is(err, cards.ErrUnknownVariant),
		errors.Is(err, compose.ErrInvalidColor),
		errors.Is(err, printsheet.ErrUnknownKind),
		errors.Is(err, database.ErrInvalidOrder):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondServiceError reports err with a matching status. Unexpected errors
// are logged and answered with the generic message only.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", message, err)
		respondError(w, status, message)
		return
	}
	respondError(w, status, err.Error())
}

// styleFromQuery reads the border and font query parameters, falling back to
// the configured defaults.
func styleFromQuery(r *http.Request, cfg *config.Config) (compose.Style, error) {
	q := r.URL.Query()
	border := q.Get("border")
	if border == "" {
		border = cfg.Styles.Defaults.BorderColor
	}
	font := q.Get("font")
	if font == "" {
		font = cfg.Styles.Defaults.FontFamily
	}
	return compose.ParseStyle(border, font)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
