package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/google/uuid"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// logRequests writes one log line per request, tagged with a request id
// that is also returned in the X-Request-Id header.
func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// requireToken authenticates the auth-token header and passes the caller's
// identity to next through the request context.
func (s *HTTPServer) requireToken(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.tokens.Authenticate(r.Context(), tokenFromHeader(r))
		if err != nil {
			s.logger.Debug(r.Context(), "rejected request", "path", r.URL.Path, "error", err)
			writeError(w, err)
			return
		}
		next(w, r.WithContext(auth.NewContext(r.Context(), id)))
	})
}

func tokenFromHeader(r *http.Request) string {
	return common.StripBearer(r.Header.Get(common.AccessTokenHeaderName))
}
