package contracts

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TipoFijo        = "fijo"
	TipoIndefinido  = "indefinido"
	TipoObraLabor   = "obra_labor"
	TipoAprendizaje = "aprendizaje"
)

var TiposContrato = []string{TipoFijo, TipoIndefinido, TipoObraLabor, TipoAprendizaje}

const (
	AprobacionDraft    = "draft"
	AprobacionAprobado = "aprobado"
)

const (
	VigenciaActivo    = "activo"
	VigenciaTerminado = "terminado"
)

// Onboarding holds the hiring checklist. Names and dates are only meaningful once the
// matching request flag is set.
type Onboarding struct {
	ProgramacionCitaExamenes      bool       `json:"programacion_cita_examenes"`
	Examenes                      bool       `json:"examenes"`
	FechaExamenes                 *time.Time `json:"fecha_examenes"`
	SolicitudInscripcionARL       bool       `json:"solicitud_inscripcion_arl"`
	ARLNombre                     string     `json:"arl_nombre"`
	ARLFechaConfirmacion          *time.Time `json:"arl_fecha_confirmacion"`
	SolicitudEPS                  bool       `json:"solicitud_eps"`
	EPSNombre                     string     `json:"eps_nombre"`
	EPSFechaConfirmacion          *time.Time `json:"eps_fecha_confirmacion"`
	SolicitudFondoPension         bool       `json:"solicitud_fondo_pension"`
	FondoPensionNombre            string     `json:"fondo_pension_nombre"`
	FondoPensionFechaConfirmacion *time.Time `json:"fondo_pension_fecha_confirmacion"`
	SolicitudCesantias            bool       `json:"solicitud_cesantias"`
	FondoCesantiasNombre          string     `json:"fondo_cesantias_nombre"`
	CesantiasFechaConfirmacion    *time.Time `json:"cesantias_fecha_confirmacion"`
}

type Beneficiarios struct {
	Hijos   int `json:"beneficiario_hijo"`
	Madre   int `json:"beneficiario_madre"`
	Padre   int `json:"beneficiario_padre"`
	Conyuge int `json:"beneficiario_conyuge"`
}

type Contract struct {
	ID                        string           `json:"id"`
	PrimerNombre              string           `json:"primer_nombre"`
	SegundoNombre             string           `json:"segundo_nombre"`
	PrimerApellido            string           `json:"primer_apellido"`
	SegundoApellido           string           `json:"segundo_apellido"`
	TipoIdentificacion        string           `json:"tipo_identificacion"`
	NumeroIdentificacion      string           `json:"numero_identificacion"`
	Celular                   string           `json:"celular"`
	Correo                    string           `json:"correo"`
	Direccion                 string           `json:"direccion"`
	EmpresaInterna            string           `json:"empresa_interna"`
	EmpresaClienteID          *string          `json:"empresa_cliente_id"`
	Cargo                     string           `json:"cargo"`
	Salario                   *decimal.Decimal `json:"salario"`
	AuxilioSalarial           *decimal.Decimal `json:"auxilio_salarial"`
	AuxilioSalarialConcepto   string           `json:"auxilio_salarial_concepto"`
	AuxilioNoSalarial         *decimal.Decimal `json:"auxilio_no_salarial"`
	AuxilioNoSalarialConcepto string           `json:"auxilio_no_salarial_concepto"`
	AuxilioTransporte         *decimal.Decimal `json:"auxilio_transporte"`
	TipoContrato              string           `json:"tipo_contrato"`
	FechaIngreso              time.Time        `json:"fecha_ingreso"`
	FechaFin                  *time.Time       `json:"fecha_fin"`

	Onboarding
	Beneficiarios

	StatusAprobacion *string    `json:"status_aprobacion"`
	AprobadoPor      *string    `json:"aprobado_por"`
	FechaAprobacion  *time.Time `json:"fecha_aprobacion"`
	CreatedBy        *string    `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedBy        *string    `json:"updated_by"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// FechaTerminacion is the effective date of a recorded termination novedad, if any.
	FechaTerminacion *time.Time `json:"fecha_terminacion,omitempty"`
}

func (c Contract) FullName() string {
	parts := []string{c.PrimerNombre, c.SegundoNombre, c.PrimerApellido, c.SegundoApellido}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Input is the editable subset of a contract accepted on create and update.
type Input struct {
	PrimerNombre              string
	SegundoNombre             string
	PrimerApellido            string
	SegundoApellido           string
	TipoIdentificacion        string
	NumeroIdentificacion      string
	Celular                   string
	Correo                    string
	Direccion                 string
	EmpresaInterna            string
	EmpresaClienteID          *string
	Cargo                     string
	Salario                   *decimal.Decimal
	AuxilioSalarial           *decimal.Decimal
	AuxilioSalarialConcepto   string
	AuxilioNoSalarial         *decimal.Decimal
	AuxilioNoSalarialConcepto string
	AuxilioTransporte         *decimal.Decimal
	TipoContrato              string
	FechaIngreso              time.Time
	FechaFin                  *time.Time
	Beneficiarios             Beneficiarios
}

type Filter struct {
	Query            string
	Vigencia         string
	StatusAprobacion string
	TipoContrato     string
	Limit            int
	Offset           int
}

type ListResult struct {
	Items []View `json:"items"`
	Total int    `json:"total"`
}
