package onboarding

import (
	"fmt"
	"strings"
	"time"

	"hrcontracts/internal/apperror"
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/format"
)

type ToggleInput struct {
	Field   Field
	Value   bool
	Nombre  string
	Fecha   *time.Time
	Confirm bool
}

// Apply returns the checklist after the change, or the rule that blocks it. today fills
// a missing confirmation date on virtual entries.
func Apply(o contracts.Onboarding, in ToggleInput, today time.Time) (contracts.Onboarding, error) {
	def, ok := Lookup(in.Field)
	if !ok {
		return o, fmt.Errorf("%w: %s", ErrUnknownField, in.Field)
	}
	sl, _ := slotFor(&o, in.Field)

	if in.Value {
		if def.DependsOn != "" && !Marked(o, def.DependsOn) {
			dep, _ := Lookup(def.DependsOn)
			return o, fmt.Errorf("%w: primero debe marcar %q", ErrDependencyNotMet, dep.Label)
		}
		if err := checkDetail(def, in); err != nil {
			return o, err
		}
		if sl.flag != nil {
			*sl.flag = true
		}
		if sl.nombre != nil {
			*sl.nombre = strings.TrimSpace(in.Nombre)
		}
		if sl.fecha != nil {
			fecha := format.DateOf(today)
			if in.Fecha != nil {
				fecha = format.DateOf(*in.Fecha)
			}
			*sl.fecha = &fecha
		}
		return o, nil
	}

	var marked []string
	for _, dep := range Dependents(in.Field) {
		if Marked(o, dep.Field) {
			marked = append(marked, dep.Label)
		}
	}
	if len(marked) > 0 {
		return o, fmt.Errorf("%w: desmarque primero %s", ErrDependentsMarked, strings.Join(marked, ", "))
	}
	if Marked(o, in.Field) && sl.holdsDetail() && !in.Confirm {
		return o, ErrConfirmationRequired
	}
	if sl.flag != nil {
		*sl.flag = false
	}
	if sl.nombre != nil {
		*sl.nombre = ""
	}
	if sl.fecha != nil {
		*sl.fecha = nil
	}
	return o, nil
}

func checkDetail(def FieldDef, in ToggleInput) error {
	if !def.RequiresDetail {
		return nil
	}
	verr := &apperror.ValidationError{}
	if def.Virtual {
		if strings.TrimSpace(in.Nombre) == "" {
			verr.Add("nombre", "indique la entidad para "+def.Label)
		}
	} else if in.Fecha == nil {
		verr.Add("fecha", "indique la fecha para "+def.Label)
	}
	return verr.OrNil()
}
