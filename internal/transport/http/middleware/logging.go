package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/platform/metrics"
	"hrcontracts/internal/transport/http/api"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// Logger stores a request-scoped logger in the context and writes one access line per request.
// It runs after RequestID and Auth so both ids are attached.
func Logger(base *zap.Logger, m *metrics.Collector) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			fields := []zap.Field{zap.String("request_id", GetRequestID(r.Context()))}
			if user, ok := GetUser(r.Context()); ok {
				fields = append(fields, zap.String("user_id", user.UserID))
			}
			reqLogger := base.With(fields...)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(logging.WithLogger(r.Context(), reqLogger)))

			duration := time.Since(start)
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			m.Record(r.Method, route, recorder.status, duration)
			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Int64("duration_ms", duration.Milliseconds()),
			)
		})
	}
}

// Recoverer turns a handler panic into a 500 envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil || rec == http.ErrAbortHandler {
				if rec != nil {
					panic(rec)
				}
				return
			}
			logging.FromContext(r.Context()).Error("panic recovered",
				zap.String("panic", fmt.Sprint(rec)),
				zap.ByteString("stack", debug.Stack()),
			)
			api.Fail(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred", GetRequestID(r.Context()))
		}()
		next.ServeHTTP(w, r)
	})
}
