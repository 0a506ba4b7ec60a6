package novedades

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrcontracts/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const novedadColumns = `
    id, contract_id::text, categoria, tipo, valor_anterior, valor_nuevo, concepto,
    fecha_efectiva, fecha_inicio, fecha_fin, dias, observacion, created_by::text, created_at`

func scanNovedad(row pgx.Row) (Novedad, error) {
	var n Novedad
	var cat string
	err := row.Scan(
		&n.ID, &n.ContractID, &cat, &n.Field, &n.ValorAnterior, &n.ValorNuevo, &n.Concepto,
		&n.FechaEfectiva, &n.FechaInicio, &n.FechaFin, &n.Dias, &n.Observacion, &n.CreatedBy, &n.CreatedAt,
	)
	n.Category = Category(cat)
	return n, err
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Novedad, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Novedad{}
	for rows.Next() {
		n, err := scanNovedad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListByContract returns every row for the contract, newest first.
func (s *Store) ListByContract(ctx context.Context, contractID string) ([]Novedad, error) {
	return s.list(ctx, `SELECT`+novedadColumns+`
    FROM novedades WHERE contract_id = $1
    ORDER BY created_at DESC`, contractID)
}

func (s *Store) ListByCategory(ctx context.Context, contractID string, cat Category) ([]Novedad, error) {
	return s.list(ctx, `SELECT`+novedadColumns+`
    FROM novedades WHERE contract_id = $1 AND categoria = $2
    ORDER BY created_at DESC`, contractID, string(cat))
}

func (s *Store) Create(ctx context.Context, n Novedad) (Novedad, error) {
	row := s.DB.QueryRow(ctx, `INSERT INTO novedades (
      contract_id, categoria, tipo, valor_anterior, valor_nuevo, concepto,
      fecha_efectiva, fecha_inicio, fecha_fin, dias, observacion, created_by
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    RETURNING`+novedadColumns,
		n.ContractID, string(n.Category), n.Field, n.ValorAnterior, n.ValorNuevo, n.Concepto,
		n.FechaEfectiva, n.FechaInicio, n.FechaFin, n.Dias, n.Observacion, n.CreatedBy,
	)
	created, err := scanNovedad(row)
	if err != nil {
		return Novedad{}, fmt.Errorf("novedades: insert: %w", err)
	}
	return created, nil
}

func (s *Store) HasTermination(ctx context.Context, contractID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `SELECT EXISTS (
      SELECT 1 FROM novedades WHERE contract_id = $1 AND categoria = 'terminacion'
    )`, contractID).Scan(&exists)
	return exists, err
}
