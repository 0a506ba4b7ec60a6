package periods

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrcontracts/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const periodColumns = `
    id::text, contract_id::text, numero_periodo, fecha_inicio, fecha_fin, tipo_periodo,
    es_periodo_actual, created_by::text, created_at`

func scanPeriod(row pgx.Row) (Period, error) {
	var p Period
	err := row.Scan(&p.ID, &p.ContractID, &p.NumeroPeriodo, &p.FechaInicio, &p.FechaFin, &p.TipoPeriodo,
		&p.EsPeriodoActual, &p.CreatedBy, &p.CreatedAt)
	return p, err
}

func (s *Store) List(ctx context.Context, contractID string) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `SELECT`+periodColumns+`
    FROM contract_periods WHERE contract_id = $1
    ORDER BY numero_periodo`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Status calls get_contract_fixed_status. A contract without periods yields ErrNoPeriods.
func (s *Store) Status(ctx context.Context, contractID string) (FixedStatus, error) {
	var st FixedStatus
	err := s.DB.QueryRow(ctx, `SELECT total_periodos, periodo_actual, proximo_periodo,
      fecha_inicio_contrato, fecha_fin_actual, dias_totales, anos_totales::float8,
      debe_ser_indefinido, alerta_legal
    FROM get_contract_fixed_status($1)`, contractID).Scan(
		&st.TotalPeriodos, &st.PeriodoActual, &st.ProximoPeriodo,
		&st.FechaInicioContrato, &st.FechaFinActual, &st.DiasTotales, &st.AnosTotales,
		&st.DebeSerIndefinido, &st.AlertaLegal,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return FixedStatus{}, ErrNoPeriods
	}
	return st, err
}

// Extend calls extend_contract_period, which closes the current period and opens the next.
func (s *Store) Extend(ctx context.Context, contractID string, newEnd time.Time, tipo, actorID string) (Period, error) {
	row := s.DB.QueryRow(ctx, `SELECT`+periodColumns+`
    FROM extend_contract_period($1, $2, $3, $4)`, contractID, newEnd, tipo, actorID)
	p, err := scanPeriod(row)
	if err != nil {
		return Period{}, fmt.Errorf("periods: extend: %w", err)
	}
	return p, nil
}
