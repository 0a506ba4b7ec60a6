package novedades

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"hrcontracts/internal/apperror"
)

var fieldValidator = validator.New()

// Validate checks the input against the rules of its category.
func Validate(in Input) error {
	verr := &apperror.ValidationError{}
	if !ValidCategory(in.Category) {
		verr.Add("categoria", "categoría desconocida")
		return verr.OrNil()
	}
	if !ValidField(in.Category, in.Field) {
		verr.Add("tipo", "tipo no válido para la categoría "+string(in.Category))
		return verr.OrNil()
	}

	value := strings.TrimSpace(in.ValorNuevo)
	switch in.Category {
	case CatDatosPersonales, CatEntidad, CatCargo:
		if value == "" {
			verr.Add("valor_nuevo", "es obligatorio")
		} else if in.Field == FieldCorreo && fieldValidator.Var(value, "email") != nil {
			verr.Add("valor_nuevo", "correo no válido")
		}
	case CatEconomica:
		amount, err := decimal.NewFromString(value)
		switch {
		case value == "":
			verr.Add("valor_nuevo", "es obligatorio")
		case err != nil:
			verr.Add("valor_nuevo", "debe ser un valor numérico")
		case amount.IsNegative():
			verr.Add("valor_nuevo", "no puede ser negativo")
		case amount.IsPositive() && needsConcepto(in.Field) && strings.TrimSpace(in.Concepto) == "":
			verr.Add("concepto", "es obligatorio para auxilios mayores a cero")
		}
	case CatBeneficios:
		if IsFlagField(in.Field) {
			if _, err := ParseFlag(value); err != nil {
				verr.Add("valor_nuevo", "debe ser 0, 1, true o false")
			}
		} else if n, err := strconv.Atoi(value); err != nil || n < 0 {
			verr.Add("valor_nuevo", "debe ser un entero no negativo")
		}
	case CatTiempoLaboral, CatIncapacidad:
		if in.FechaInicio == nil {
			verr.Add("fecha_inicio", "es obligatoria")
		}
		if in.FechaFin == nil {
			verr.Add("fecha_fin", "es obligatoria")
		}
		if in.FechaInicio != nil && in.FechaFin != nil && in.FechaFin.Before(*in.FechaInicio) {
			verr.Add("fecha_fin", "debe ser igual o posterior a la fecha de inicio")
		}
	case CatTerminacion:
		if in.FechaEfectiva == nil {
			verr.Add("fecha_efectiva", "es obligatoria")
		}
		if strings.TrimSpace(in.Observacion) == "" {
			verr.Add("observacion", "indique el motivo de la terminación")
		}
	}
	return verr.OrNil()
}

func needsConcepto(field string) bool {
	return field == FieldAuxilioSalarial || field == FieldAuxilioNoSalarial
}
