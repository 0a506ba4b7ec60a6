package contracts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrcontracts/internal/domain/audit"
	"hrcontracts/internal/format"
	"hrcontracts/internal/platform/events"
)

type Service struct {
	Store  StoreAPI
	Audit  *audit.Service
	Events events.Publisher
	Format format.Formatter
	Now    func() time.Time
}

func NewService(store StoreAPI, auditSvc *audit.Service, publisher events.Publisher, f format.Formatter) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{Store: store, Audit: auditSvc, Events: publisher, Format: f, Now: time.Now}
}

func (s *Service) Today() time.Time {
	return s.Format.Today(s.Now())
}

func (s *Service) List(ctx context.Context, f Filter) (ListResult, error) {
	items, err := s.Store.List(ctx, StoreFilter{StatusAprobacion: f.StatusAprobacion, TipoContrato: f.TipoContrato})
	if err != nil {
		return ListResult{}, err
	}
	items = Search(items, f.Query)

	today := s.Today()
	views := make([]View, 0, len(items))
	for _, c := range items {
		v := Derive(c, today)
		if f.Vigencia != "" && v.EstadoVigencia != f.Vigencia {
			continue
		}
		views = append(views, v)
	}

	total := len(views)
	start := min(max(f.Offset, 0), total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return ListResult{Items: views[start:end], Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return Derive(c, s.Today()), nil
}

// Create always stores a draft.
func (s *Service) Create(ctx context.Context, in Input, actorID string) (View, error) {
	if err := Validate(in); err != nil {
		return View{}, err
	}
	id, err := s.Store.Create(ctx, in, actorID)
	if err != nil {
		return View{}, err
	}
	view, err := s.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	s.Audit.RecordBestEffort(ctx, actorID, "contract.create", audit.EntityContract, id, nil, view.Contract)
	s.Events.Publish(events.Event{
		Type:     events.TypeContractCreated,
		EntityID: id,
		ActorID:  actorID,
		Message:  fmt.Sprintf("Contrato en borrador creado para %s", view.NombreCompleto),
	})
	return view, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input, actorID string) (View, error) {
	before, err := s.requireDraft(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := Validate(in); err != nil {
		return View{}, err
	}
	ok, err := s.Store.Update(ctx, id, in, actorID)
	if err != nil {
		return View{}, err
	}
	if !ok {
		return View{}, ErrContractApproved
	}
	view, err := s.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	s.Audit.RecordBestEffort(ctx, actorID, "contract.update", audit.EntityContract, id, before, view.Contract)
	return view, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	before, err := s.requireDraft(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrContractApproved
	}
	s.Audit.RecordBestEffort(ctx, actorID, "contract.delete", audit.EntityContract, id, before, nil)
	s.Events.Publish(events.Event{
		Type:     events.TypeContractDeleted,
		EntityID: id,
		ActorID:  actorID,
		Message:  fmt.Sprintf("Contrato en borrador de %s eliminado", before.FullName()),
	})
	return nil
}

// Approve locks the contract. Fixed-term contracts get their initial period from the database.
func (s *Service) Approve(ctx context.Context, id, actorID string) (View, error) {
	before, err := s.requireDraft(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := s.Store.Approve(ctx, id, actorID); err != nil {
		return View{}, err
	}
	view, err := s.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	s.Audit.RecordBestEffort(ctx, actorID, "contract.approve", audit.EntityContract, id,
		map[string]string{"status_aprobacion": StatusAprobacion(before)},
		map[string]string{"status_aprobacion": view.EstadoAprobacion})
	s.Events.Publish(events.Event{
		Type:     events.TypeContractApproved,
		EntityID: id,
		ActorID:  actorID,
		Message:  fmt.Sprintf("Contrato de %s aprobado", view.NombreCompleto),
	})
	return view, nil
}

func (s *Service) requireDraft(ctx context.Context, id string) (Contract, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	if !IsDraft(c) {
		return Contract{}, ErrContractApproved
	}
	return c, nil
}

// ExpiringWithin lists approved contracts whose effective end is between today and today+days.
func (s *Service) ExpiringWithin(ctx context.Context, days int) ([]View, error) {
	today := s.Today()
	items, err := s.Store.ListEndingBetween(ctx, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(items))
	for _, c := range items {
		out = append(out, Derive(c, today))
	}
	return out, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
