package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"ticketdesk/internal/apperr"

	"github.com/rs/zerolog"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Fail maps a classified error to its HTTP status. Internal failures are
// logged and answered opaquely, without query or driver detail.
func Fail(w http.ResponseWriter, l zerolog.Logger, err error) {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.Internal {
		Error(w, apperr.Status(e.Kind), e.Msg)
		return
	}
	l.Error().Err(err).Msg("request failed")
	Error(w, http.StatusInternalServerError, "internal error")
}
