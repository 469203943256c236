package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/sunburst/pkg/errors"
)

const requestIDHeader = "X-Request-Id"

// withRequestID propagates or assigns a request id.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		r.Header.Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(started),
			"request_id", r.Header.Get(requestIDHeader))
	})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeMalformedInput, errors.ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScale, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logger.Warn("request failed",
		"path", r.URL.Path,
		"status", status,
		"error", err,
		"request_id", r.Header.Get(requestIDHeader))
	http.Error(w, errors.UserMessage(err), status)
}
