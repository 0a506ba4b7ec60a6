package contracts

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"hrcontracts/internal/format"
)

type Permissions struct {
	CanEdit    bool `json:"can_edit"`
	CanDelete  bool `json:"can_delete"`
	CanApprove bool `json:"can_approve"`
}

// View is a contract with every derived display value resolved for one calendar day.
type View struct {
	Contract
	NombreCompleto    string          `json:"nombre_completo"`
	EstadoVigencia    string          `json:"estado_vigencia"`
	EstadoAprobacion  string          `json:"estado_aprobacion"`
	DiasParaVencer    *int            `json:"dias_para_vencer"`
	FechaFinEfectiva  *time.Time      `json:"fecha_fin_efectiva"`
	TerminacionFutura bool            `json:"terminacion_programada"`
	Permisos          Permissions     `json:"permisos"`
	RemuneracionTotal decimal.Decimal `json:"remuneracion_total"`
}

// EffectiveEnd is the termination date when one was recorded, otherwise fecha_fin.
func EffectiveEnd(c Contract) *time.Time {
	if c.FechaTerminacion != nil {
		return c.FechaTerminacion
	}
	return c.FechaFin
}

// StatusVigencia compares calendar days only: a contract ending today is already terminated.
func StatusVigencia(c Contract, today time.Time) string {
	end := EffectiveEnd(c)
	if end == nil {
		return VigenciaActivo
	}
	if !format.DateOf(*end).After(format.DateOf(today)) {
		return VigenciaTerminado
	}
	return VigenciaActivo
}

func DaysUntilExpiry(c Contract, today time.Time) *int {
	end := EffectiveEnd(c)
	if end == nil {
		return nil
	}
	hours := format.DateOf(*end).Sub(format.DateOf(today)).Hours()
	days := int(math.Ceil(hours / 24))
	return &days
}

// StatusAprobacion treats a missing value as approved; older rows predate the workflow.
func StatusAprobacion(c Contract) string {
	if c.StatusAprobacion == nil || *c.StatusAprobacion == "" {
		return AprobacionAprobado
	}
	return *c.StatusAprobacion
}

func IsDraft(c Contract) bool {
	return StatusAprobacion(c) == AprobacionDraft
}

func PermissionsFor(c Contract) Permissions {
	draft := IsDraft(c)
	return Permissions{CanEdit: draft, CanDelete: draft, CanApprove: draft}
}

// TotalRemuneration adds salary and both allowances. Transport aid is excluded.
func TotalRemuneration(c Contract) decimal.Decimal {
	total := decimal.Zero
	for _, v := range []*decimal.Decimal{c.Salario, c.AuxilioSalarial, c.AuxilioNoSalarial} {
		if v != nil {
			total = total.Add(*v)
		}
	}
	return total
}

func Derive(c Contract, today time.Time) View {
	end := EffectiveEnd(c)
	return View{
		Contract:          c,
		NombreCompleto:    c.FullName(),
		EstadoVigencia:    StatusVigencia(c, today),
		EstadoAprobacion:  StatusAprobacion(c),
		DiasParaVencer:    DaysUntilExpiry(c, today),
		FechaFinEfectiva:  end,
		TerminacionFutura: c.FechaTerminacion != nil && format.DateOf(*c.FechaTerminacion).After(format.DateOf(today)),
		Permisos:          PermissionsFor(c),
		RemuneracionTotal: TotalRemuneration(c),
	}
}
