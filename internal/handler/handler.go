package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"stock-keeper/internal/middleware"
	"stock-keeper/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to tell the client.
		return
	}
}

// writeError writes an error response with the given status code, error code
// and message. The request id is echoed as the correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("request_id", requestID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: requestID,
	})
}

// writeServiceError maps an error returned by the service layer to a response.
// Domain errors keep their code and message; anything else becomes a 500
// without leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("unexpected service error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	writeError(w, r, statusForKind(de.Kind), de.Code, de.Message, logger)
}

func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidArgument:
		return http.StatusBadRequest
	case model.KindValidation:
		return http.StatusUnprocessableEntity
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) {
	writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", logger)
}
