package periods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrcontracts/internal/domain/audit"
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/format"
	"hrcontracts/internal/platform/config"
	"hrcontracts/internal/platform/events"
	"hrcontracts/internal/platform/logging"
)

type ContractGetter interface {
	Get(ctx context.Context, id string) (contracts.Contract, error)
}

type Service struct {
	Store     StoreAPI
	Contracts ContractGetter
	Audit     *audit.Service
	Events    events.Publisher
	Rules     config.LaborRules
	Format    format.Formatter
	Now       func() time.Time
}

func NewService(store StoreAPI, contractStore ContractGetter, auditSvc *audit.Service, publisher events.Publisher, rules config.LaborRules, f format.Formatter) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		Store:     store,
		Contracts: contractStore,
		Audit:     auditSvc,
		Events:    publisher,
		Rules:     rules,
		Format:    f,
		Now:       time.Now,
	}
}

func (s *Service) fixedTerm(ctx context.Context, contractID string) (contracts.Contract, error) {
	c, err := s.Contracts.Get(ctx, contractID)
	if err != nil {
		return contracts.Contract{}, err
	}
	if c.TipoContrato != contracts.TipoFijo {
		return contracts.Contract{}, contracts.ErrNotFixedTerm
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, contractID string) ([]Period, error) {
	if _, err := s.fixedTerm(ctx, contractID); err != nil {
		return nil, err
	}
	return s.Store.List(ctx, contractID)
}

// Overview combines the stored-procedure summary with the period rows. When the procedure
// returns nothing the summary is computed from the rows.
func (s *Service) Overview(ctx context.Context, contractID string) (Overview, error) {
	c, err := s.fixedTerm(ctx, contractID)
	if err != nil {
		return Overview{}, err
	}
	if contracts.IsDraft(c) {
		return Overview{}, ErrContractDraft
	}
	periods, err := s.Store.List(ctx, contractID)
	if err != nil {
		return Overview{}, err
	}
	status, err := s.status(ctx, contractID, periods)
	if err != nil {
		return Overview{}, err
	}

	today := s.Format.Today(s.Now())
	out := Overview{
		ContractID:        contractID,
		Status:            status,
		Periods:           periods,
		DiasTranscurridos: ElapsedDays(status, today),
		FechaTerminacion:  c.FechaTerminacion,
	}
	if c.FechaTerminacion != nil {
		out.Terminado = !format.DateOf(*c.FechaTerminacion).After(today)
		out.Status.AlertaLegal = nil
	}
	return out, nil
}

func (s *Service) status(ctx context.Context, contractID string, periods []Period) (FixedStatus, error) {
	status, err := s.Store.Status(ctx, contractID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, ErrNoPeriods) {
		return FixedStatus{}, err
	}
	return Summarize(periods, s.Rules)
}

// Preview validates an extension without writing it.
func (s *Service) Preview(ctx context.Context, contractID string, in ExtendInput) (Extension, error) {
	if _, err := s.extendable(ctx, contractID); err != nil {
		return Extension{}, err
	}
	_, ext, err := s.plan(ctx, contractID, in)
	return ext, err
}

func (s *Service) Extend(ctx context.Context, contractID string, in ExtendInput, actorID string) (Period, error) {
	c, err := s.extendable(ctx, contractID)
	if err != nil {
		return Period{}, err
	}
	before, ext, err := s.plan(ctx, contractID, in)
	if err != nil {
		return Period{}, err
	}

	created, err := s.Store.Extend(ctx, contractID, ext.FechaFin, in.TipoPeriodo, actorID)
	if err != nil {
		return Period{}, err
	}
	if created.NumeroPeriodo != ext.Numero {
		logging.FromContext(ctx).Warn("extension numbering differs from plan",
			zap.String("contract_id", contractID),
			zap.Int("planned", ext.Numero),
			zap.Int("created", created.NumeroPeriodo))
	}

	s.Audit.RecordBestEffort(ctx, actorID, "contract.extend", audit.EntityPeriod, created.ID,
		map[string]any{"fecha_fin": before.FechaFinActual, "periodo_actual": before.PeriodoActual},
		created)
	s.Events.Publish(events.Event{
		Type:     events.TypeContractExtended,
		EntityID: contractID,
		ActorID:  actorID,
		Message: fmt.Sprintf("Contrato de %s prorrogado hasta %s (periodo %d)",
			c.FullName(), format.LongDate(created.FechaFin), created.NumeroPeriodo),
		Payload: map[string]any{
			"numero_periodo": created.NumeroPeriodo,
			"tipo_periodo":   created.TipoPeriodo,
			"dias":           ext.Dias,
		},
	})
	return created, nil
}

func (s *Service) extendable(ctx context.Context, contractID string) (contracts.Contract, error) {
	c, err := s.fixedTerm(ctx, contractID)
	if err != nil {
		return contracts.Contract{}, err
	}
	if contracts.IsDraft(c) {
		return contracts.Contract{}, ErrContractDraft
	}
	if c.FechaTerminacion != nil {
		return contracts.Contract{}, ErrContractTerminated
	}
	return c, nil
}

func (s *Service) plan(ctx context.Context, contractID string, in ExtendInput) (FixedStatus, Extension, error) {
	periods, err := s.Store.List(ctx, contractID)
	if err != nil {
		return FixedStatus{}, Extension{}, err
	}
	if _, err := PlanExtension(periods, in.FechaFin, in.TipoPeriodo); err != nil {
		return FixedStatus{}, Extension{}, err
	}
	status, err := s.status(ctx, contractID, periods)
	if err != nil {
		return FixedStatus{}, Extension{}, err
	}
	ext, err := ValidateExtension(status, in.FechaFin, s.Rules)
	if err != nil {
		return FixedStatus{}, Extension{}, err
	}
	return status, ext, nil
}
