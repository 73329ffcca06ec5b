package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
)

// ErrorBuilder helps construct structured errors with context
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]any
	requestID string
}

// NewError creates a new error builder
func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{
		errType: errType,
		message: message,
		context: make(map[string]any),
	}
}

// WithContext adds context information to the error
func (eb *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	eb.context[key] = value
	return eb
}

// WithRequestID adds request ID to the error
func (eb *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	eb.requestID = requestID
	return eb
}

// WithCause records the underlying error message.
func (eb *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	if err != nil {
		eb.context["cause"] = err.Error()
	}
	return eb
}

// Build creates the final EngineError
func (eb *ErrorBuilder) Build() EngineError {
	return EngineError{
		Type:      eb.errType,
		Message:   eb.message,
		Context:   eb.context,
		RequestID: eb.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler writes structured errors and logs them.
type ErrorHandler struct {
	logger zerolog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger zerolog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleValidationError responds 400 for a bad field.
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, errType, field string, err error) {
	engineErr := NewError(errType, fmt.Sprintf("Validation failed: %s", err)).
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("field", field).
		WithContext("path", r.URL.Path).
		Build()

	eh.logError(r, engineErr, http.StatusBadRequest)
	eh.writeErrorResponse(w, http.StatusBadRequest, engineErr)
}

// HandleError responds 500 with err as a structured body.
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var engineErr EngineError
	if !errors.As(err, &engineErr) {
		engineErr = NewError(ErrTypeInternal, "Internal server error").
			WithCause(err).
			WithRequestID(middleware.GetReqID(r.Context())).
			WithContext("path", r.URL.Path).
			WithContext("method", r.Method).
			Build()
	}

	eh.logError(r, engineErr, http.StatusInternalServerError)
	eh.writeErrorResponse(w, http.StatusInternalServerError, engineErr)
}

// logError logs the error at a level matching its category.
func (eh *ErrorHandler) logError(r *http.Request, engineErr EngineError, status int) {
	category := GetErrorCategory(engineErr.Type)

	event := eh.logger.Error()
	if category == CategoryValidation {
		event = eh.logger.Warn()
	}

	fields := make(map[string]any, len(engineErr.Context))
	for key, value := range engineErr.Context {
		// Never log raw seeds - only hashes
		if key == "server_seed" || key == "client_seed" {
			continue
		}
		fields[key] = value
	}

	event.
		Str("type", engineErr.Type).
		Str("category", string(category)).
		Int("status", status).
		Str("request_id", engineErr.RequestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Fields(fields).
		Msg(engineErr.Message)
}

// writeErrorResponse writes the structured error response
func (eh *ErrorHandler) writeErrorResponse(w http.ResponseWriter, status int, engineErr EngineError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(engineErr); err != nil {
		eh.logger.Error().Err(err).Msg("failed to encode error response")
	}
}

// RecoveryHandler turns panics into 500 responses. Invariant violations get
// their own error type so a broken trial is distinguishable from other bugs.
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			requestID := middleware.GetReqID(r.Context())
			builder := NewError(ErrTypeInternal, "Internal server error")

			var iv *montyhall.InvariantViolation
			if err, ok := rvr.(error); ok && errors.As(err, &iv) {
				builder = NewError(ErrTypeInvariant, "Trial invariant violated").
					WithContext("phase", iv.Phase).
					WithContext("detail", iv.Detail)
			}

			engineErr := builder.
				WithRequestID(requestID).
				WithContext("panic", fmt.Sprintf("%v", rvr)).
				WithContext("path", r.URL.Path).
				Build()

			eh.logError(r, engineErr, http.StatusInternalServerError)
			eh.writeErrorResponse(w, http.StatusInternalServerError, engineErr)
		}()

		next.ServeHTTP(w, r)
	})
}
