package periods

import "time"

const (
	TipoInicial            = "inicial"
	TipoProrrogaAutomatica = "prorroga_automatica"
	TipoProrrogaAcordada   = "prorroga_acordada"
)

// Period is one contiguous stretch of a fixed-term contract.
type Period struct {
	ID              string    `json:"id"`
	ContractID      string    `json:"contract_id"`
	NumeroPeriodo   int       `json:"numero_periodo"`
	FechaInicio     time.Time `json:"fecha_inicio"`
	FechaFin        time.Time `json:"fecha_fin"`
	TipoPeriodo     string    `json:"tipo_periodo"`
	EsPeriodoActual bool      `json:"es_periodo_actual"`
	CreatedBy       *string   `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// Dias counts both ends of the period.
func (p Period) Dias() int {
	return inclusiveDays(p.FechaInicio, p.FechaFin)
}

// FixedStatus mirrors the row returned by get_contract_fixed_status.
type FixedStatus struct {
	TotalPeriodos       int       `json:"total_periodos"`
	PeriodoActual       int       `json:"periodo_actual"`
	ProximoPeriodo      int       `json:"proximo_periodo"`
	FechaInicioContrato time.Time `json:"fecha_inicio_contrato"`
	FechaFinActual      time.Time `json:"fecha_fin_actual"`
	DiasTotales         int       `json:"dias_totales"`
	AnosTotales         float64   `json:"anos_totales"`
	DebeSerIndefinido   bool      `json:"debe_ser_indefinido"`
	AlertaLegal         *string   `json:"alerta_legal"`
}

// Extension is an accepted plan for the next period.
type Extension struct {
	Numero          int       `json:"numero_periodo"`
	FechaInicio     time.Time `json:"fecha_inicio"`
	FechaFin        time.Time `json:"fecha_fin"`
	Dias            int       `json:"dias"`
	AnosResultantes float64   `json:"anos_resultantes"`
}

type ExtendInput struct {
	FechaFin    time.Time
	TipoPeriodo string
}

// Overview is what the period screen shows for one contract.
type Overview struct {
	ContractID        string      `json:"contract_id"`
	Status            FixedStatus `json:"status"`
	Periods           []Period    `json:"periods"`
	DiasTranscurridos int         `json:"dias_transcurridos"`
	FechaTerminacion  *time.Time  `json:"fecha_terminacion"`
	Terminado         bool        `json:"terminado"`
}
