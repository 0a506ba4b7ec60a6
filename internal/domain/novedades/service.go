package novedades

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hrcontracts/internal/apperror"
	"hrcontracts/internal/domain/audit"
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/format"
	"hrcontracts/internal/platform/events"
	"hrcontracts/internal/platform/logging"
	"hrcontracts/internal/platform/metrics"
)

const terminationIndex = "novedades_terminacion_unica_idx"

type ContractGetter interface {
	Get(ctx context.Context, id string) (contracts.Contract, error)
}

type Service struct {
	Store     StoreAPI
	Contracts ContractGetter
	Audit     *audit.Service
	Events    events.Publisher
	Metrics   *metrics.Collector
	Format    format.Formatter
	Now       func() time.Time
}

func NewService(store StoreAPI, contractStore ContractGetter, auditSvc *audit.Service, publisher events.Publisher, m *metrics.Collector, f format.Formatter) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		Store:     store,
		Contracts: contractStore,
		Audit:     auditSvc,
		Events:    publisher,
		Metrics:   m,
		Format:    f,
		Now:       time.Now,
	}
}

func (s *Service) today() time.Time {
	return s.Format.Today(s.Now())
}

// List returns the contract's history newest first, optionally restricted to one category.
func (s *Service) List(ctx context.Context, contractID string, cat Category) ([]Novedad, error) {
	if _, err := s.Contracts.Get(ctx, contractID); err != nil {
		return nil, err
	}
	if cat == "" {
		return s.Store.ListByContract(ctx, contractID)
	}
	if !ValidCategory(cat) {
		return nil, apperror.Invalid("categoria", "categoría desconocida")
	}
	return s.Store.ListByCategory(ctx, contractID, cat)
}

// Current fetches every category independently. A failed category keeps the contract
// values and is reported in Errors.
func (s *Service) Current(ctx context.Context, contractID string) (CurrentState, error) {
	c, err := s.Contracts.Get(ctx, contractID)
	if err != nil {
		return CurrentState{}, err
	}

	fetched := make([]categoryResult, len(Categories))
	var g errgroup.Group
	for i, cat := range Categories {
		g.Go(func() error {
			rows, err := s.Store.ListByCategory(ctx, contractID, cat)
			if err != nil {
				logging.FromContext(ctx).Error("novedades category fetch failed",
					zap.String("contract_id", contractID),
					zap.String("categoria", string(cat)),
					zap.Error(err))
				s.Metrics.CategoryFetchFailed(string(cat))
			}
			fetched[i] = categoryResult{Rows: rows, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[Category]categoryResult, len(Categories))
	for i, cat := range Categories {
		results[cat] = fetched[i]
	}
	return BuildState(c, results, s.today()), nil
}

func (s *Service) Create(ctx context.Context, contractID string, in Input, actorID string) (Novedad, error) {
	c, err := s.Contracts.Get(ctx, contractID)
	if err != nil {
		return Novedad{}, err
	}
	if contracts.IsDraft(c) {
		return Novedad{}, ErrContractDraft
	}
	if err := Validate(in); err != nil {
		return Novedad{}, err
	}
	if in.Category == CatTiempoLaboral && in.Field == FieldProrroga && c.TipoContrato == contracts.TipoFijo {
		return Novedad{}, ErrUsePeriodExtension
	}

	if in.Category == CatTerminacion {
		if !in.Confirm {
			return Novedad{}, ErrConfirmationRequired
		}
		exists, err := s.Store.HasTermination(ctx, contractID)
		if err != nil {
			return Novedad{}, err
		}
		if exists {
			return Novedad{}, ErrTerminationExists
		}
	}

	n := s.build(c, in, actorID)
	if !in.Category.IsSpan() && in.Category != CatTerminacion {
		prior, err := s.Store.ListByCategory(ctx, contractID, in.Category)
		if err != nil {
			return Novedad{}, err
		}
		n.ValorAnterior = ChainFor(c, in.Category, prior).Resolve(in.Field).Value
	}

	created, err := s.Store.Create(ctx, n)
	if err != nil {
		if apperror.IsUniqueViolation(err, terminationIndex) {
			return Novedad{}, ErrTerminationExists
		}
		return Novedad{}, err
	}

	s.Audit.RecordBestEffort(ctx, actorID, "novedad.create", audit.EntityNovedad, created.ID, nil, created)
	s.publish(c, created, actorID)
	return created, nil
}

func (s *Service) build(c contracts.Contract, in Input, actorID string) Novedad {
	n := Novedad{
		ContractID:  c.ID,
		Category:    in.Category,
		Field:       in.Field,
		Observacion: strings.TrimSpace(in.Observacion),
	}
	if actorID != "" {
		n.CreatedBy = &actorID
	}
	if in.FechaEfectiva != nil {
		n.FechaEfectiva = format.DateOf(*in.FechaEfectiva)
	} else {
		n.FechaEfectiva = s.today()
	}
	if concepto := strings.TrimSpace(in.Concepto); concepto != "" {
		n.Concepto = &concepto
	}

	value := strings.TrimSpace(in.ValorNuevo)
	switch in.Category {
	case CatEconomica:
		amount := decimal.RequireFromString(value)
		n.ValorNuevo = strPtr(amount.String())
	case CatBeneficios:
		if IsFlagField(in.Field) {
			b, _ := ParseFlag(value)
			n.ValorNuevo = flagString(b)
		} else {
			hijos, _ := strconv.Atoi(value)
			n.ValorNuevo = strPtr(strconv.Itoa(hijos))
		}
	case CatTiempoLaboral, CatIncapacidad:
		inicio, fin := format.DateOf(*in.FechaInicio), format.DateOf(*in.FechaFin)
		dias := InclusiveDays(inicio, fin)
		n.FechaInicio, n.FechaFin, n.Dias = &inicio, &fin, &dias
		if in.FechaEfectiva == nil {
			n.FechaEfectiva = inicio
		}
		if value != "" {
			n.ValorNuevo = &value
		}
	case CatTerminacion:
	default:
		n.ValorNuevo = &value
	}
	return n
}

func (s *Service) publish(c contracts.Contract, n Novedad, actorID string) {
	event := events.Event{
		Type:     events.TypeNovedadCreated,
		EntityID: c.ID,
		ActorID:  actorID,
		Message:  fmt.Sprintf("Novedad %s/%s registrada para %s", n.Category, n.Field, c.FullName()),
		Payload: map[string]any{
			"novedad_id": n.ID,
			"categoria":  string(n.Category),
			"tipo":       n.Field,
		},
	}
	if n.Category == CatTerminacion {
		event.Type = events.TypeContractTerminated
		event.Message = fmt.Sprintf("Terminación (%s) de %s registrada con fecha %s",
			n.Field, c.FullName(), format.LongDate(n.FechaEfectiva))
		event.Payload["fecha_efectiva"] = format.ShortDate(n.FechaEfectiva)
	}
	s.Events.Publish(event)
}

func IsTerminationExists(err error) bool {
	return errors.Is(err, ErrTerminationExists)
}
