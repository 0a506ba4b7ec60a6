package onboarding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hrcontracts/internal/domain/audit"
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/format"
	"hrcontracts/internal/platform/events"
)

type ContractStore interface {
	Get(ctx context.Context, id string) (contracts.Contract, error)
	SaveOnboarding(ctx context.Context, id string, o contracts.Onboarding, actorID string) error
}

type Service struct {
	Store  ContractStore
	Audit  *audit.Service
	Events events.Publisher
	Format format.Formatter
	Now    func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(store ContractStore, auditSvc *audit.Service, publisher events.Publisher, f format.Formatter) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		Store:    store,
		Audit:    auditSvc,
		Events:   publisher,
		Format:   f,
		Now:      time.Now,
		inFlight: map[string]struct{}{},
	}
}

func (s *Service) Checklist(ctx context.Context, contractID string) (Checklist, error) {
	c, err := s.Store.Get(ctx, contractID)
	if err != nil {
		return Checklist{}, err
	}
	return Build(c.ID, c.Onboarding), nil
}

// Toggle applies one change. A second toggle on the same contract while the first is
// still running is rejected rather than queued.
func (s *Service) Toggle(ctx context.Context, contractID string, in ToggleInput, actorID string) (Checklist, error) {
	if !s.acquire(contractID) {
		return Checklist{}, ErrToggleInProgress
	}
	defer s.release(contractID)

	c, err := s.Store.Get(ctx, contractID)
	if err != nil {
		return Checklist{}, err
	}
	updated, err := Apply(c.Onboarding, in, s.Format.Today(s.Now()))
	if err != nil {
		return Checklist{}, err
	}
	if err := s.Store.SaveOnboarding(ctx, contractID, updated, actorID); err != nil {
		return Checklist{}, err
	}

	s.Audit.RecordBestEffort(ctx, actorID, "onboarding.toggle", audit.EntityOnboarding, contractID, c.Onboarding, updated)
	action := "desmarcado"
	if in.Value {
		action = "marcado"
	}
	def, _ := Lookup(in.Field)
	s.Events.Publish(events.Event{
		Type:     events.TypeOnboardingToggled,
		EntityID: contractID,
		ActorID:  actorID,
		Message:  fmt.Sprintf("%s %s para %s", def.Label, action, c.FullName()),
		Payload: map[string]any{
			"field":    string(in.Field),
			"value":    in.Value,
			"progress": Progress(updated),
		},
	})
	return Build(contractID, updated), nil
}

func (s *Service) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Service) release(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}
