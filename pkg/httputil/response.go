package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Ezra-186/Team09-HCH/pkg/errors"
	"github.com/Ezra-186/Team09-HCH/pkg/logger"
	"github.com/Ezra-186/Team09-HCH/pkg/validator"
)

// MessageResponse is the envelope used for non-entity responses. Successful
// mutations reply {"message":"ok"}; failures reply with a human-readable
// message and the mapped status code.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, the error is swallowed because headers are already sent.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes the {"message":"ok"} success envelope.
func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
}

// WriteMessage writes a message envelope with the given status code.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteError maps err to an HTTP status and writes a message envelope.
// Validation and authorization failures carry their own message; anything
// that maps to a 500 is logged with request context and surfaced as a
// generic message so store-level detail never reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	message := "an internal error occurred"

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		if appErr.Status != http.StatusInternalServerError {
			message = appErr.Message
		}
		status = appErr.Status
	case errors.Is(err, apperrors.ErrNotFound):
		message = "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = "Unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		message = "Forbidden"
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteMessage(w, status, message)
}

// WriteValidationError writes a 400 message envelope for a failed request
// validation. Field-level detail from the validator is folded into the message.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteMessage(w, http.StatusBadRequest, valErr.Error())
		return
	}
	WriteMessage(w, http.StatusBadRequest, err.Error())
}
