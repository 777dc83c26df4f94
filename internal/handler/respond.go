package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pairlink/pairlink-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads a JSON request body into dst. On failure it writes the
// error response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// errorMapper turns service errors into HTTP responses.
type errorMapper struct {
	log *zap.Logger
}

// writeError maps err to a status and message. Validation errors keep their
// message, a missing match is a 404, the listed errors are collapsed into
// fallback, and anything else is logged and also answered with fallback.
func (m errorMapper) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string, collapse ...error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse(verr.Message))
		return
	case errors.Is(err, service.ErrMatchNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		return
	case errors.Is(err, service.ErrReceiverNotFound), errors.Is(err, service.ErrProfileNotFound):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	for _, target := range collapse {
		if errors.Is(err, target) {
			writeJSON(w, http.StatusBadRequest, errorResponse(fallback))
			return
		}
	}

	m.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSON(w, http.StatusBadRequest, errorResponse(fallback))
}
