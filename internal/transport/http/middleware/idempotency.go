package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/platform/querier"
	"hrcontracts/internal/transport/http/api"
)

const IdempotencyHeader = "Idempotency-Key"

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

// StoredResponse is a replayable response recorded under an idempotency key.
type StoredResponse struct {
	Status int
	Body   json.RawMessage
}

type IdempotencyStore struct {
	db querier.Querier
}

func NewIdempotencyStore(db querier.Querier) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) Check(ctx context.Context, userID, endpoint, key, requestHash string) (StoredResponse, bool, error) {
	if s == nil || s.db == nil {
		return StoredResponse{}, false, nil
	}
	var storedHash string
	var stored StoredResponse
	err := s.db.QueryRow(ctx, `
    SELECT request_hash, status_code, response_json
    FROM idempotency_keys
    WHERE user_id = $1 AND key = $2 AND endpoint = $3
  `, userID, key, endpoint).Scan(&storedHash, &stored.Status, &stored.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredResponse{}, false, nil
	}
	if err != nil {
		return StoredResponse{}, false, err
	}
	if storedHash != requestHash {
		return StoredResponse{}, false, ErrIdempotencyConflict
	}
	return stored, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, userID, endpoint, key, requestHash string, response StoredResponse) error {
	if s == nil || s.db == nil {
		return nil
	}
	tag, err := s.db.Exec(ctx, `
    INSERT INTO idempotency_keys (user_id, key, endpoint, request_hash, status_code, response_json)
    VALUES ($1, $2, $3, $4, $5, $6)
    ON CONFLICT (user_id, key, endpoint)
    DO UPDATE SET response_json = EXCLUDED.response_json, status_code = EXCLUDED.status_code
    WHERE idempotency_keys.request_hash = EXCLUDED.request_hash
  `, userID, key, endpoint, requestHash, response.Status, []byte(response.Body))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}

type bufferedWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bufferedWriter) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
	b.ResponseWriter.WriteHeader(code)
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}

// Idempotent replays the stored response when a request repeats its Idempotency-Key with
// the same body. A reused key with a different body is rejected. Only successful responses
// are recorded so a corrected retry can go through.
func Idempotent(store *IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			user, ok := GetUser(r.Context())
			if key == "" || !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			requestID := GetRequestID(r.Context())
			logger := logging.FromContext(r.Context())

			raw, err := io.ReadAll(r.Body)
			if err != nil {
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			hash := RequestHash(raw)
			endpoint := r.Method + " " + r.URL.Path

			stored, found, err := store.Check(r.Context(), user.UserID, endpoint, key, hash)
			switch {
			case errors.Is(err, ErrIdempotencyConflict):
				api.Fail(w, http.StatusConflict, "idempotency_conflict", ErrIdempotencyConflict.Error(), requestID)
				return
			case err != nil:
				logger.Error("idempotency lookup failed", zap.Error(err))
				api.Fail(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred", requestID)
				return
			case found:
				w.Header().Set("Idempotent-Replayed", "true")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			buffered := &bufferedWriter{ResponseWriter: w}
			next.ServeHTTP(buffered, r)
			if buffered.status < 200 || buffered.status >= 300 {
				return
			}
			resp := StoredResponse{Status: buffered.status, Body: json.RawMessage(bytes.TrimSpace(buffered.body.Bytes()))}
			if err := store.Save(context.WithoutCancel(r.Context()), user.UserID, endpoint, key, hash, resp); err != nil {
				logger.Warn("idempotency save failed", zap.String("key", key), zap.Error(err))
			}
		})
	}
}
