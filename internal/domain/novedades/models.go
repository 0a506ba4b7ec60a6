package novedades

import (
	"slices"
	"time"
)

type Category string

const (
	CatDatosPersonales Category = "datos_personales"
	CatEconomica       Category = "economica"
	CatEntidad         Category = "entidad"
	CatCargo           Category = "cargo"
	CatBeneficios      Category = "beneficios"
	CatTiempoLaboral   Category = "tiempo_laboral"
	CatIncapacidad     Category = "incapacidad"
	CatTerminacion     Category = "terminacion"
)

var Categories = []Category{
	CatDatosPersonales,
	CatEconomica,
	CatEntidad,
	CatCargo,
	CatBeneficios,
	CatTiempoLaboral,
	CatIncapacidad,
	CatTerminacion,
}

const (
	FieldNombres   = "nombres"
	FieldApellidos = "apellidos"
	FieldCelular   = "celular"
	FieldCorreo    = "correo"
	FieldDireccion = "direccion"

	FieldSalario           = "salario"
	FieldAuxilioSalarial   = "auxilio_salarial"
	FieldAuxilioNoSalarial = "auxilio_no_salarial"
	FieldAuxilioTransporte = "auxilio_transporte"

	FieldEPS            = "eps"
	FieldFondoPension   = "fondo_pension"
	FieldFondoCesantias = "fondo_cesantias"
	FieldARL            = "arl"

	FieldCargo = "cargo"

	FieldHijos   = "hijos"
	FieldMadre   = "madre"
	FieldPadre   = "padre"
	FieldConyuge = "conyuge"

	FieldProrroga   = "prorroga"
	FieldVacaciones = "vacaciones"
	FieldSuspension = "suspension"

	FieldIncapacidadComun   = "comun"
	FieldIncapacidadLaboral = "laboral"

	FieldRenuncia      = "renuncia"
	FieldMutuoAcuerdo  = "mutuo_acuerdo"
	FieldJustaCausa    = "justa_causa"
	FieldSinJustaCausa = "sin_justa_causa"
	FieldVencimiento   = "vencimiento"
)

// FieldKeys lists the keys each category may carry.
var FieldKeys = map[Category][]string{
	CatDatosPersonales: {FieldNombres, FieldApellidos, FieldCelular, FieldCorreo, FieldDireccion},
	CatEconomica:       {FieldSalario, FieldAuxilioSalarial, FieldAuxilioNoSalarial, FieldAuxilioTransporte},
	CatEntidad:         {FieldEPS, FieldFondoPension, FieldFondoCesantias, FieldARL},
	CatCargo:           {FieldCargo},
	CatBeneficios:      {FieldHijos, FieldMadre, FieldPadre, FieldConyuge},
	CatTiempoLaboral:   {FieldProrroga, FieldVacaciones, FieldSuspension},
	CatIncapacidad:     {FieldIncapacidadComun, FieldIncapacidadLaboral},
	CatTerminacion:     {FieldRenuncia, FieldMutuoAcuerdo, FieldJustaCausa, FieldSinJustaCausa, FieldVencimiento},
}

func ValidCategory(c Category) bool {
	return slices.Contains(Categories, c)
}

func ValidField(c Category, field string) bool {
	return slices.Contains(FieldKeys[c], field)
}

// IsSpan reports whether the category records a date range rather than a new value.
func (c Category) IsSpan() bool {
	return c == CatTiempoLaboral || c == CatIncapacidad
}

// Novedad is an append-only amendment to a contract.
type Novedad struct {
	ID            string     `json:"id"`
	ContractID    string     `json:"contract_id"`
	Category      Category   `json:"categoria"`
	Field         string     `json:"tipo"`
	ValorAnterior *string    `json:"valor_anterior"`
	ValorNuevo    *string    `json:"valor_nuevo"`
	Concepto      *string    `json:"concepto"`
	FechaEfectiva time.Time  `json:"fecha_efectiva"`
	FechaInicio   *time.Time `json:"fecha_inicio"`
	FechaFin      *time.Time `json:"fecha_fin"`
	Dias          *int       `json:"dias"`
	Observacion   string     `json:"observacion"`
	CreatedBy     *string    `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Input struct {
	Category      Category
	Field         string
	ValorNuevo    string
	Concepto      string
	FechaEfectiva *time.Time
	FechaInicio   *time.Time
	FechaFin      *time.Time
	Observacion   string
	Confirm       bool
}
