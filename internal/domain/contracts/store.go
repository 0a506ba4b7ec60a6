package contracts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hrcontracts/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// selectColumns must stay in the order read by scanContract.
const selectColumns = `
    c.id, c.primer_nombre, COALESCE(c.segundo_nombre, ''), c.primer_apellido, COALESCE(c.segundo_apellido, ''),
    c.tipo_identificacion, c.numero_identificacion, COALESCE(c.celular, ''), COALESCE(c.correo, ''), COALESCE(c.direccion, ''),
    c.empresa_interna, c.empresa_cliente_id::text, c.cargo,
    c.salario::text, c.auxilio_salarial::text, COALESCE(c.auxilio_salarial_concepto, ''),
    c.auxilio_no_salarial::text, COALESCE(c.auxilio_no_salarial_concepto, ''), c.auxilio_transporte::text,
    c.tipo_contrato, c.fecha_ingreso, c.fecha_fin,
    c.programacion_cita_examenes, c.examenes, c.fecha_examenes,
    c.solicitud_inscripcion_arl, COALESCE(c.arl_nombre, ''), c.arl_fecha_confirmacion,
    c.solicitud_eps, COALESCE(c.eps_nombre, ''), c.eps_fecha_confirmacion,
    c.solicitud_fondo_pension, COALESCE(c.fondo_pension_nombre, ''), c.fondo_pension_fecha_confirmacion,
    c.solicitud_cesantias, COALESCE(c.fondo_cesantias_nombre, ''), c.cesantias_fecha_confirmacion,
    c.beneficiario_hijo, c.beneficiario_madre, c.beneficiario_padre, c.beneficiario_conyuge,
    c.status_aprobacion, c.aprobado_por::text, c.fecha_aprobacion,
    c.created_by::text, c.created_at, c.updated_by::text, c.updated_at,
    t.fecha_efectiva`

const fromContracts = `
    FROM contracts c
    LEFT JOIN LATERAL (
      SELECT n.fecha_efectiva FROM novedades n
      WHERE n.contract_id = c.id AND n.categoria = 'terminacion'
      ORDER BY n.created_at DESC LIMIT 1
    ) t ON true`

func scanContract(row pgx.Row) (Contract, error) {
	var c Contract
	var salario, auxSalarial, auxNoSalarial, auxTransporte *string
	err := row.Scan(
		&c.ID, &c.PrimerNombre, &c.SegundoNombre, &c.PrimerApellido, &c.SegundoApellido,
		&c.TipoIdentificacion, &c.NumeroIdentificacion, &c.Celular, &c.Correo, &c.Direccion,
		&c.EmpresaInterna, &c.EmpresaClienteID, &c.Cargo,
		&salario, &auxSalarial, &c.AuxilioSalarialConcepto,
		&auxNoSalarial, &c.AuxilioNoSalarialConcepto, &auxTransporte,
		&c.TipoContrato, &c.FechaIngreso, &c.FechaFin,
		&c.ProgramacionCitaExamenes, &c.Examenes, &c.FechaExamenes,
		&c.SolicitudInscripcionARL, &c.ARLNombre, &c.ARLFechaConfirmacion,
		&c.SolicitudEPS, &c.EPSNombre, &c.EPSFechaConfirmacion,
		&c.SolicitudFondoPension, &c.FondoPensionNombre, &c.FondoPensionFechaConfirmacion,
		&c.SolicitudCesantias, &c.FondoCesantiasNombre, &c.CesantiasFechaConfirmacion,
		&c.Hijos, &c.Madre, &c.Padre, &c.Conyuge,
		&c.StatusAprobacion, &c.AprobadoPor, &c.FechaAprobacion,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedBy, &c.UpdatedAt,
		&c.FechaTerminacion,
	)
	if err != nil {
		return Contract{}, err
	}
	for _, m := range []struct {
		raw *string
		dst **decimal.Decimal
	}{
		{salario, &c.Salario},
		{auxSalarial, &c.AuxilioSalarial},
		{auxNoSalarial, &c.AuxilioNoSalarial},
		{auxTransporte, &c.AuxilioTransporte},
	} {
		if *m.dst, err = parseMoney(m.raw); err != nil {
			return Contract{}, err
		}
	}
	return c, nil
}

func parseMoney(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("contracts: parse amount %q: %w", *raw, err)
	}
	return &d, nil
}

func moneyArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

type StoreFilter struct {
	StatusAprobacion string
	TipoContrato     string
}

func (s *Store) List(ctx context.Context, filter StoreFilter) ([]Contract, error) {
	query := "SELECT" + selectColumns + fromContracts + " WHERE 1=1"
	var args []any
	if filter.StatusAprobacion != "" {
		args = append(args, filter.StatusAprobacion)
		query += fmt.Sprintf(" AND COALESCE(c.status_aprobacion, 'aprobado') = $%d", len(args))
	}
	if filter.TipoContrato != "" {
		args = append(args, filter.TipoContrato)
		query += fmt.Sprintf(" AND c.tipo_contrato = $%d", len(args))
	}
	query += " ORDER BY c.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Contract, error) {
	c, err := scanContract(s.DB.QueryRow(ctx, "SELECT"+selectColumns+fromContracts+" WHERE c.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrNotFound
	}
	return c, err
}

// ListEndingBetween returns approved contracts whose effective end falls in [from, to].
func (s *Store) ListEndingBetween(ctx context.Context, from, to time.Time) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+selectColumns+fromContracts+`
    WHERE COALESCE(c.status_aprobacion, 'aprobado') = 'aprobado'
      AND COALESCE(t.fecha_efectiva, c.fecha_fin) BETWEEN $1 AND $2
    ORDER BY COALESCE(t.fecha_efectiva, c.fecha_fin)`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, in Input, actorID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contracts (
      primer_nombre, segundo_nombre, primer_apellido, segundo_apellido,
      tipo_identificacion, numero_identificacion, celular, correo, direccion,
      empresa_interna, empresa_cliente_id, cargo,
      salario, auxilio_salarial, auxilio_salarial_concepto,
      auxilio_no_salarial, auxilio_no_salarial_concepto, auxilio_transporte,
      tipo_contrato, fecha_ingreso, fecha_fin,
      beneficiario_hijo, beneficiario_madre, beneficiario_padre, beneficiario_conyuge,
      status_aprobacion, created_by, updated_by
    ) VALUES (
      $1, NULLIF($2, ''), $3, NULLIF($4, ''),
      $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''),
      $10, $11::uuid, $12,
      $13::numeric, $14::numeric, NULLIF($15, ''),
      $16::numeric, NULLIF($17, ''), $18::numeric,
      $19, $20, $21,
      $22, $23, $24, $25,
      'draft', NULLIF($26, '')::uuid, NULLIF($26, '')::uuid
    )
    RETURNING id
  `, inputArgs(in, actorID)...).Scan(&id)
	return id, err
}

// Update only touches drafts; ok is false when no draft row matched.
func (s *Store) Update(ctx context.Context, id string, in Input, actorID string) (bool, error) {
	args := append(inputArgs(in, actorID), id)
	tag, err := s.DB.Exec(ctx, `
    UPDATE contracts SET
      primer_nombre = $1, segundo_nombre = NULLIF($2, ''), primer_apellido = $3, segundo_apellido = NULLIF($4, ''),
      tipo_identificacion = $5, numero_identificacion = $6, celular = NULLIF($7, ''), correo = NULLIF($8, ''), direccion = NULLIF($9, ''),
      empresa_interna = $10, empresa_cliente_id = $11::uuid, cargo = $12,
      salario = $13::numeric, auxilio_salarial = $14::numeric, auxilio_salarial_concepto = NULLIF($15, ''),
      auxilio_no_salarial = $16::numeric, auxilio_no_salarial_concepto = NULLIF($17, ''), auxilio_transporte = $18::numeric,
      tipo_contrato = $19, fecha_ingreso = $20, fecha_fin = $21,
      beneficiario_hijo = $22, beneficiario_madre = $23, beneficiario_padre = $24, beneficiario_conyuge = $25,
      updated_by = NULLIF($26, '')::uuid, updated_at = now()
    WHERE id = $27 AND status_aprobacion = 'draft'
  `, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func inputArgs(in Input, actorID string) []any {
	return []any{
		in.PrimerNombre, in.SegundoNombre, in.PrimerApellido, in.SegundoApellido,
		in.TipoIdentificacion, in.NumeroIdentificacion, in.Celular, in.Correo, in.Direccion,
		in.EmpresaInterna, in.EmpresaClienteID, in.Cargo,
		moneyArg(in.Salario), moneyArg(in.AuxilioSalarial), in.AuxilioSalarialConcepto,
		moneyArg(in.AuxilioNoSalarial), in.AuxilioNoSalarialConcepto, moneyArg(in.AuxilioTransporte),
		in.TipoContrato, in.FechaIngreso, in.FechaFin,
		in.Beneficiarios.Hijos, in.Beneficiarios.Madre, in.Beneficiarios.Padre, in.Beneficiarios.Conyuge,
		actorID,
	}
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM contracts WHERE id = $1 AND status_aprobacion = 'draft'", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Approve(ctx context.Context, id, actorID string) error {
	_, err := s.DB.Exec(ctx, "SELECT approve_contract($1, $2)", id, actorID)
	return err
}

// SaveOnboarding writes the whole checklist; it is allowed in any approval state.
func (s *Store) SaveOnboarding(ctx context.Context, id string, o Onboarding, actorID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE contracts SET
      programacion_cita_examenes = $1, examenes = $2, fecha_examenes = $3,
      solicitud_inscripcion_arl = $4, arl_nombre = NULLIF($5, ''), arl_fecha_confirmacion = $6,
      solicitud_eps = $7, eps_nombre = NULLIF($8, ''), eps_fecha_confirmacion = $9,
      solicitud_fondo_pension = $10, fondo_pension_nombre = NULLIF($11, ''), fondo_pension_fecha_confirmacion = $12,
      solicitud_cesantias = $13, fondo_cesantias_nombre = NULLIF($14, ''), cesantias_fecha_confirmacion = $15,
      updated_by = NULLIF($16, '')::uuid, updated_at = now()
    WHERE id = $17
  `,
		o.ProgramacionCitaExamenes, o.Examenes, o.FechaExamenes,
		o.SolicitudInscripcionARL, o.ARLNombre, o.ARLFechaConfirmacion,
		o.SolicitudEPS, o.EPSNombre, o.EPSFechaConfirmacion,
		o.SolicitudFondoPension, o.FondoPensionNombre, o.FondoPensionFechaConfirmacion,
		o.SolicitudCesantias, o.FondoCesantiasNombre, o.CesantiasFechaConfirmacion,
		actorID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
