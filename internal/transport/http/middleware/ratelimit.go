package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per key: limit tokens refilled evenly over window.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	keyFn   RateLimitKeyFunc
	now     func() time.Time
	clients map[string]*limiterEntry
}

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(rl *rateLimiter) {
		if fn != nil {
			rl.keyFn = fn
		}
	}
}

func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, window, actorOrIPKey)
	for _, opt := range opts {
		opt(rl)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SensitiveMutationRateLimit applies tighter limits to login and to the mutations that
// change accounts or legal contract state. Everything else passes untouched.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	authLimit := max(baseLimit/4, 1)
	mutationLimit := max(baseLimit/2, 1)
	authByIP := newRateLimiter(authLimit, window, clientIPKey)
	authByEmail := newRateLimiter(authLimit, window, AuthEmailOrIPKey("email"))
	sensitiveByActor := newRateLimiter(mutationLimit, window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case sensitiveScopeAuth:
				if !authByIP.enforce(w, r) {
					return
				}
				if !authByEmail.enforce(w, r) {
					return
				}
			case sensitiveScopeActor:
				if !sensitiveByActor.enforce(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	normalizedField := strings.TrimSpace(field)
	if normalizedField == "" {
		normalizedField = "email"
	}
	return func(r *http.Request) string {
		email := extractJSONField(r, normalizedField)
		if email == "" {
			return clientIPKey(r)
		}
		return "email:" + strings.ToLower(email)
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

func newRateLimiter(limit int, window time.Duration, keyFn RateLimitKeyFunc) *rateLimiter {
	if keyFn == nil {
		keyFn = actorOrIPKey
	}
	return &rateLimiter{
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		now:     time.Now,
		clients: map[string]*limiterEntry{},
	}
}

func (rl *rateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	entry, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= 10_000 {
			rl.pruneLocked(now)
		}
		every := rate.Every(rl.window / time.Duration(rl.limit))
		entry = &limiterEntry{limiter: rate.NewLimiter(every, rl.limit)}
		rl.clients[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// pruneLocked drops keys idle for a full window; their buckets are full again anyway.
func (rl *rateLimiter) pruneLocked(now time.Time) {
	for key, entry := range rl.clients {
		if now.Sub(entry.lastSeen) > rl.window {
			delete(rl.clients, key)
		}
	}
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 || rl.window <= 0 {
		return true
	}

	key := rl.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	now := rl.now()
	limiter := rl.limiterFor(key, now)

	allowed := limiter.AllowN(now, 1)
	remaining := int(limiter.TokensAt(now))
	resetIn := durationSeconds(time.Duration(float64(rl.limit-remaining) * float64(rl.window) / float64(rl.limit)))

	w.Header().Set("X-RateLimit-Limit", itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", itoa(max(remaining, 0)))
	w.Header().Set("X-RateLimit-Reset", itoa(resetIn))

	if !allowed {
		reservation := limiter.ReserveN(now, 1)
		retryAfter := durationSeconds(reservation.DelayFrom(now))
		reservation.CancelAt(now)
		w.Header().Set("Retry-After", itoa(max(retryAfter, 1)))
		logging.FromContext(r.Context()).Warn("rate limit exceeded",
			zap.String("key", key),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Int("limit", rl.limit),
			zap.Int("window_sec", int(rl.window.Seconds())),
		)
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		return false
	}

	return true
}

func durationSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	seconds := int(d.Seconds())
	if seconds <= 0 {
		return 1
	}
	return seconds
}

func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

type sensitiveScope string

const (
	sensitiveScopeNone  sensitiveScope = ""
	sensitiveScopeAuth  sensitiveScope = "auth"
	sensitiveScopeActor sensitiveScope = "actor"
)

func sensitiveRateScope(r *http.Request) sensitiveScope {
	if r == nil {
		return sensitiveScopeNone
	}
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch && method != http.MethodDelete {
		return sensitiveScopeNone
	}

	path := normalizedAPIPath(r.URL.Path)
	switch path {
	case "/auth/login", "/auth/password":
		return sensitiveScopeAuth
	case "/toggle-user-status", "/admin-reset-password":
		return sensitiveScopeActor
	}

	if strings.HasPrefix(path, "/users/") {
		return sensitiveScopeActor
	}
	if strings.HasPrefix(path, "/contracts/") {
		for _, suffix := range []string{"/approve", "/novedades", "/periods/extend"} {
			if strings.HasSuffix(path, suffix) {
				return sensitiveScopeActor
			}
		}
	}

	return sensitiveScopeNone
}

func normalizedAPIPath(path string) string {
	cleaned := strings.TrimSpace(path)
	cleaned = strings.TrimPrefix(cleaned, "/api/v1")
	cleaned = strings.TrimPrefix(cleaned, "/api")
	if cleaned == "" {
		return "/"
	}
	if !strings.HasPrefix(cleaned, "/") {
		return "/" + cleaned
	}
	return cleaned
}

func itoa(value int) string {
	return strconv.Itoa(value)
}
