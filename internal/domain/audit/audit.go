package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/platform/querier"
	"hrcontracts/internal/requestctx"
)

const (
	EntityContract   = "contract"
	EntityNovedad    = "novedad"
	EntityPeriod     = "contract_period"
	EntityOnboarding = "onboarding"
	EntityUser       = "profile"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorUser  string
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshalOptional(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalOptional(after)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_user_id, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES (NULLIF($1, '')::uuid,$2,$3,$4,$5,$6,$7,$8)
  `, actorID, action, entityType, entityID, beforeJSON, afterJSON, requestctx.GetRequestID(ctx), requestctx.GetClientIP(ctx))
	return err
}

// RecordBestEffort logs instead of returning failures so the caller's mutation stands.
func (s *Service) RecordBestEffort(ctx context.Context, actorID, action, entityType, entityID string, before, after any) {
	if s == nil || s.DB == nil {
		return
	}
	if err := s.Record(ctx, actorID, action, entityType, entityID, before, after); err != nil {
		logging.FromContext(ctx).Error("audit record failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func marshalOptional(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	selectCols := "id, COALESCE(actor_user_id::text, ''), action, entity_type, entity_id, COALESCE(request_id, ''), COALESCE(ip, ''), created_at"
	if includeDetails {
		selectCols += ", before_json, after_json"
	}
	query, args := buildBaseQuery("SELECT "+selectCols, filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_events WHERE 1=1"
	var args []any
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		query += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	if filter.ActorUser != "" {
		args = append(args, filter.ActorUser)
		query += fmt.Sprintf(" AND actor_user_id::text = $%d", len(args))
	}
	return query, args
}
