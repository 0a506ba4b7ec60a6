package onboarding

import (
	"time"

	"hrcontracts/internal/domain/contracts"
)

type Field string

const (
	FieldCitaExamenes          Field = "programacion_cita_examenes"
	FieldExamenes              Field = "examenes"
	FieldSolicitudARL          Field = "solicitud_inscripcion_arl"
	FieldConfirmacionARL       Field = "confirmacion_arl"
	FieldSolicitudEPS          Field = "solicitud_eps"
	FieldConfirmacionEPS       Field = "confirmacion_eps"
	FieldSolicitudPension      Field = "solicitud_fondo_pension"
	FieldConfirmacionPension   Field = "confirmacion_fondo_pension"
	FieldSolicitudCesantias    Field = "solicitud_cesantias"
	FieldConfirmacionCesantias Field = "confirmacion_cesantias"
)

// FieldDef describes one checklist entry.
// Virtual entries are not stored as flags; they are confirmed when their name and date are present.
// RequiresDetail entries need extra data (a date, or a name and date) to be marked.
type FieldDef struct {
	Field          Field
	Label          string
	DependsOn      Field
	Virtual        bool
	RequiresDetail bool
}

// Fields is the checklist in display order.
var Fields = []FieldDef{
	{Field: FieldCitaExamenes, Label: "Programación de cita de exámenes"},
	{Field: FieldExamenes, Label: "Exámenes médicos realizados", DependsOn: FieldCitaExamenes, RequiresDetail: true},
	{Field: FieldSolicitudARL, Label: "Solicitud de inscripción a ARL"},
	{Field: FieldConfirmacionARL, Label: "Confirmación de ARL", DependsOn: FieldSolicitudARL, Virtual: true, RequiresDetail: true},
	{Field: FieldSolicitudEPS, Label: "Solicitud de EPS"},
	{Field: FieldConfirmacionEPS, Label: "Confirmación de EPS", DependsOn: FieldSolicitudEPS, Virtual: true, RequiresDetail: true},
	{Field: FieldSolicitudPension, Label: "Solicitud de fondo de pensión"},
	{Field: FieldConfirmacionPension, Label: "Confirmación de fondo de pensión", DependsOn: FieldSolicitudPension, Virtual: true, RequiresDetail: true},
	{Field: FieldSolicitudCesantias, Label: "Solicitud de fondo de cesantías"},
	{Field: FieldConfirmacionCesantias, Label: "Confirmación de fondo de cesantías", DependsOn: FieldSolicitudCesantias, Virtual: true, RequiresDetail: true},
}

func Lookup(f Field) (FieldDef, bool) {
	for _, s := range Fields {
		if s.Field == f {
			return s, true
		}
	}
	return FieldDef{}, false
}

// Dependents lists the entries that require f.
func Dependents(f Field) []FieldDef {
	var out []FieldDef
	for _, s := range Fields {
		if s.DependsOn == f {
			out = append(out, s)
		}
	}
	return out
}

// slot points at the columns backing an entry. flag is nil for virtual entries.
type slot struct {
	flag   *bool
	nombre *string
	fecha  **time.Time
}

// holdsDetail reports whether unmarking would discard a stored name or date.
func (s slot) holdsDetail() bool {
	if s.nombre != nil && *s.nombre != "" {
		return true
	}
	return s.fecha != nil && *s.fecha != nil
}

func slotFor(o *contracts.Onboarding, f Field) (slot, bool) {
	switch f {
	case FieldCitaExamenes:
		return slot{flag: &o.ProgramacionCitaExamenes}, true
	case FieldExamenes:
		return slot{flag: &o.Examenes, fecha: &o.FechaExamenes}, true
	case FieldSolicitudARL:
		return slot{flag: &o.SolicitudInscripcionARL}, true
	case FieldConfirmacionARL:
		return slot{nombre: &o.ARLNombre, fecha: &o.ARLFechaConfirmacion}, true
	case FieldSolicitudEPS:
		return slot{flag: &o.SolicitudEPS}, true
	case FieldConfirmacionEPS:
		return slot{nombre: &o.EPSNombre, fecha: &o.EPSFechaConfirmacion}, true
	case FieldSolicitudPension:
		return slot{flag: &o.SolicitudFondoPension}, true
	case FieldConfirmacionPension:
		return slot{nombre: &o.FondoPensionNombre, fecha: &o.FondoPensionFechaConfirmacion}, true
	case FieldSolicitudCesantias:
		return slot{flag: &o.SolicitudCesantias}, true
	case FieldConfirmacionCesantias:
		return slot{nombre: &o.FondoCesantiasNombre, fecha: &o.CesantiasFechaConfirmacion}, true
	}
	return slot{}, false
}
