package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/platform/events"
	"hrcontracts/internal/platform/metrics"
	"hrcontracts/internal/platform/querier"
)

const JobExpiryScan = "contract_expiry_scan"

// ContractSource lists contracts ending within a number of days.
type ContractSource interface {
	ExpiringWithin(ctx context.Context, days int) ([]contracts.View, error)
}

type Service struct {
	DB          querier.Querier
	Contracts   ContractSource
	Events      events.Publisher
	Metrics     *metrics.Collector
	Logger      *zap.Logger
	Interval    time.Duration
	WarningDays int
	queue       chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

type ScanResult struct {
	WarningDays int      `json:"warning_days"`
	Found       int      `json:"found"`
	Published   int      `json:"published"`
	ContractIDs []string `json:"contract_ids"`
}

func New(db querier.Querier, source ContractSource, publisher events.Publisher, m *metrics.Collector, logger *zap.Logger, interval time.Duration, warningDays int) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		DB:          db,
		Contracts:   source,
		Events:      publisher,
		Metrics:     m,
		Logger:      logger.Named("jobs"),
		Interval:    interval,
		WarningDays: warningDays,
		queue:       make(chan job, 16),
	}
}

// Start runs the worker and, when an interval is configured, the expiry scheduler.
// Both stop when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Interval > 0 && s.WarningDays > 0 {
		go s.scheduleExpiryScan(ctx, s.Interval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		s.Logger.Warn("job queue full", zap.String("job_type", jobType))
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.Logger.Warn("job run failed", zap.String("job_type", j.Type), zap.Error(err))
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		s.Logger.Warn("job run insert failed", zap.String("job_type", j.Type), zap.Error(err))
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
		details = map[string]string{"error": err.Error()}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.Logger.Warn("job details marshal failed", zap.Error(marshalErr))
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			s.Logger.Warn("job run update failed", zap.String("run_id", runID), zap.Error(updErr))
		}
	}
	return details, err
}

func (s *Service) scheduleExpiryScan(ctx context.Context, interval time.Duration) {
	s.Enqueue(JobExpiryScan, s.ScanExpiring)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobExpiryScan, s.ScanExpiring)
		}
	}
}

// ScanExpiring publishes one contract.expiring event per active contract whose
// effective end falls within the warning window.
func (s *Service) ScanExpiring(ctx context.Context) (any, error) {
	views, err := s.Contracts.ExpiringWithin(ctx, s.WarningDays)
	if err != nil {
		return nil, fmt.Errorf("jobs: list expiring contracts: %w", err)
	}
	result := ScanResult{WarningDays: s.WarningDays, ContractIDs: []string{}}
	for _, v := range views {
		if v.EstadoVigencia != contracts.VigenciaActivo || v.DiasParaVencer == nil {
			continue
		}
		result.Found++
		result.ContractIDs = append(result.ContractIDs, v.ID)
		days := *v.DiasParaVencer
		payload := map[string]any{
			"dias_para_vencer":      days,
			"numero_identificacion": v.NumeroIdentificacion,
			"cargo":                 v.Cargo,
		}
		if v.FechaFinEfectiva != nil {
			payload["fecha_fin"] = v.FechaFinEfectiva.Format("2006-01-02")
		}
		ok := s.Events.Publish(events.Event{
			Type:     events.TypeContractExpiring,
			EntityID: v.ID,
			Message:  fmt.Sprintf("El contrato de %s vence en %d días", v.NombreCompleto, days),
			Payload:  payload,
		})
		if ok {
			result.Published++
		}
	}
	s.Metrics.ExpiringContracts(result.Found)
	s.Logger.Info("expiry scan finished",
		zap.Int("found", result.Found),
		zap.Int("published", result.Published),
		zap.Int("warning_days", s.WarningDays))
	return result, nil
}
