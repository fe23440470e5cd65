package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"finny/internal/core"
	"finny/internal/log"
)

const maxBodyBytes = 1 << 16

var errMalformedBody = errors.New("malformed request body")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps err onto the error taxonomy. Server-side failures are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrDuplicateUser):
		return http.StatusConflict, core.ErrDuplicateUser.Error()
	case errors.Is(err, core.ErrAuthFailed):
		return http.StatusUnauthorized, core.ErrAuthFailed.Error()
	case errors.Is(err, core.ErrInvalidPasskey),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidInput):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, core.ErrNotFound.Error()
	case errors.Is(err, core.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, core.ErrStorageUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// decodeJSON reads a JSON body into dst. Domain errors raised by field
// decoders pass through; anything else is a malformed body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", core.ErrInvalidInput, chi.URLParam(r, "id"))
	}
	return id, nil
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
