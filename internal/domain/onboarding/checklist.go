package onboarding

import (
	"math"
	"time"

	"hrcontracts/internal/domain/contracts"
)

type State string

const (
	StateEmpty     State = "empty"
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
)

type Item struct {
	Field     Field      `json:"field"`
	Label     string     `json:"label"`
	DependsOn Field      `json:"depends_on,omitempty"`
	Virtual   bool       `json:"virtual"`
	Marked    bool       `json:"marked"`
	Blocked   bool       `json:"blocked"`
	State     State      `json:"state,omitempty"`
	Nombre    string     `json:"nombre,omitempty"`
	Fecha     *time.Time `json:"fecha,omitempty"`
}

type Checklist struct {
	ContractID string `json:"contract_id"`
	Items      []Item `json:"items"`
	Progress   int    `json:"progress"`
}

// Marked reports whether an entry counts as done.
func Marked(o contracts.Onboarding, f Field) bool {
	sl, ok := slotFor(&o, f)
	if !ok {
		return false
	}
	if sl.flag != nil {
		return *sl.flag
	}
	return *sl.nombre != "" && *sl.fecha != nil
}

// TriState is only meaningful for virtual entries.
func TriState(o contracts.Onboarding, f Field) State {
	def, ok := Lookup(f)
	if !ok {
		return StateEmpty
	}
	if def.DependsOn != "" && !Marked(o, def.DependsOn) {
		return StateEmpty
	}
	if Marked(o, f) {
		return StateConfirmed
	}
	return StatePending
}

// Progress is the rounded percentage of marked entries.
func Progress(o contracts.Onboarding) int {
	done := 0
	for _, s := range Fields {
		if Marked(o, s.Field) {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(Fields))))
}

func Build(contractID string, o contracts.Onboarding) Checklist {
	items := make([]Item, 0, len(Fields))
	for _, s := range Fields {
		sl, _ := slotFor(&o, s.Field)
		item := Item{
			Field:     s.Field,
			Label:     s.Label,
			DependsOn: s.DependsOn,
			Virtual:   s.Virtual,
			Marked:    Marked(o, s.Field),
			Blocked:   s.DependsOn != "" && !Marked(o, s.DependsOn),
		}
		if s.Virtual {
			item.State = TriState(o, s.Field)
		}
		if sl.nombre != nil {
			item.Nombre = *sl.nombre
		}
		if sl.fecha != nil {
			item.Fecha = *sl.fecha
		}
		items = append(items, item)
	}
	return Checklist{ContractID: contractID, Items: items, Progress: Progress(o)}
}
