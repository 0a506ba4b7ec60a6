package users

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrcontracts/internal/domain/audit"
	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/platform/cache"
	"hrcontracts/internal/platform/events"
	"hrcontracts/internal/platform/logging"
)

type Service struct {
	Store  StoreAPI
	Cache  *cache.TTLCache[[]Profile]
	Audit  *audit.Service
	Events events.Publisher
}

func NewService(store StoreAPI, listCache *cache.TTLCache[[]Profile], auditSvc *audit.Service, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{Store: store, Cache: listCache, Audit: auditSvc, Events: publisher}
}

// List reads through the users cache; refresh drops the cached copy first.
func (s *Service) List(ctx context.Context, refresh bool) ([]Profile, error) {
	if refresh {
		s.invalidate(ctx)
	}
	return s.Cache.Get(ctx, s.Store.ListProfiles)
}

func (s *Service) ToggleStatus(ctx context.Context, userID, action, actorID string) (Profile, error) {
	var active bool
	switch action {
	case ActionActivate:
		active = true
	case ActionDeactivate:
		if userID == actorID {
			return Profile{}, ErrSelfDeactivation
		}
	default:
		return Profile{}, ErrInvalidAction
	}

	before, err := s.Store.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if err := s.Store.SetActive(ctx, userID, active); err != nil {
		return Profile{}, err
	}
	s.invalidate(ctx)

	after := before
	after.IsActive = active
	s.Audit.RecordBestEffort(ctx, actorID, "user."+action, audit.EntityUser, userID,
		map[string]bool{"is_active": before.IsActive}, map[string]bool{"is_active": active})
	s.Events.Publish(events.Event{
		Type:     events.TypeUserStatusChanged,
		EntityID: userID,
		ActorID:  actorID,
		Message:  fmt.Sprintf("Usuario %s %s", after.Email, statusLabel(active)),
		Payload:  map[string]any{"is_active": active},
	})
	return after, nil
}

// ResetPassword stores a fresh temporary password and forces a change on next sign-in.
func (s *Service) ResetPassword(ctx context.Context, userID, actorID string) (ResetResult, error) {
	p, err := s.Store.Get(ctx, userID)
	if err != nil {
		return ResetResult{}, err
	}
	password, err := TemporaryPassword()
	if err != nil {
		return ResetResult{}, fmt.Errorf("users: generate password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return ResetResult{}, fmt.Errorf("users: hash password: %w", err)
	}
	if err := s.Store.SetTemporaryPassword(ctx, userID, hash); err != nil {
		return ResetResult{}, err
	}
	s.invalidate(ctx)

	s.Audit.RecordBestEffort(ctx, actorID, "user.reset_password", audit.EntityUser, userID, nil,
		map[string]bool{"must_change_password": true})
	s.Events.Publish(events.Event{
		Type:     events.TypeUserPasswordReset,
		EntityID: userID,
		ActorID:  actorID,
		Message:  fmt.Sprintf("Contraseña temporal generada para %s", p.Email),
	})
	return ResetResult{ID: p.ID, Email: p.Email, FullName: p.FullName, TemporaryPassword: password}, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("users cache invalidation failed", zap.Error(err))
	}
}

func statusLabel(active bool) string {
	if active {
		return "activado"
	}
	return "desactivado"
}
