package novedades

import (
	"time"

	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/format"
)

// CurrentState is the contract as amended by its novedades on a given day.
type CurrentState struct {
	ContractID  string                          `json:"contract_id"`
	Fields      map[Category]map[string]Resolved `json:"fields"`
	Spans       map[Category][]Novedad           `json:"ausencias"`
	Terminacion *Novedad                         `json:"terminacion"`
	Terminado   bool                             `json:"terminado"`
	Errors      map[Category]string              `json:"errors,omitempty"`
}

// categoryResult is one category fetch; Err set means only base values are known.
type categoryResult struct {
	Rows []Novedad
	Err  error
}

// BuildState folds the fetched rows of every category over the contract columns.
func BuildState(c contracts.Contract, results map[Category]categoryResult, today time.Time) CurrentState {
	state := CurrentState{
		ContractID: c.ID,
		Fields:     map[Category]map[string]Resolved{},
		Spans:      map[Category][]Novedad{},
		Errors:     map[Category]string{},
	}
	for _, cat := range Categories {
		res := results[cat]
		if res.Err != nil {
			state.Errors[cat] = res.Err.Error()
		}

		switch {
		case cat == CatTerminacion:
			if term := latestTermination(res.Rows); term != nil {
				state.Terminacion = term
				state.Terminado = !format.DateOf(term.FechaEfectiva).After(format.DateOf(today))
			}
		case cat.IsSpan():
			state.Spans[cat] = activeSpans(res.Rows, today)
		default:
			rows := res.Rows
			if res.Err != nil {
				rows = nil
			}
			chain := ChainFor(c, cat, rows)
			fields := make(map[string]Resolved, len(FieldKeys[cat]))
			for _, key := range FieldKeys[cat] {
				r := chain.Resolve(key)
				if cat == CatBeneficios && IsFlagField(key) {
					r = normalizeFlag(r)
				}
				fields[key] = r
			}
			state.Fields[cat] = fields
		}
	}
	if state.Terminacion == nil && c.FechaTerminacion != nil {
		state.Terminado = !format.DateOf(*c.FechaTerminacion).After(format.DateOf(today))
	}
	if len(state.Errors) == 0 {
		state.Errors = nil
	}
	return state
}

// Value returns the resolved value of one field, or nil.
func (s CurrentState) Value(cat Category, field string) *string {
	return s.Fields[cat][field].Value
}

func latestTermination(rows []Novedad) *Novedad {
	var out *Novedad
	for i := range rows {
		if out == nil || rows[i].CreatedAt.After(out.CreatedAt) {
			out = &rows[i]
		}
	}
	return out
}

// activeSpans returns the rows whose date range covers today.
func activeSpans(rows []Novedad, today time.Time) []Novedad {
	day := format.DateOf(today)
	out := []Novedad{}
	for _, n := range rows {
		if n.FechaInicio == nil {
			continue
		}
		if format.DateOf(*n.FechaInicio).After(day) {
			continue
		}
		if n.FechaFin != nil && format.DateOf(*n.FechaFin).Before(day) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// InclusiveDays counts both ends of a date range.
func InclusiveDays(from, to time.Time) int {
	return int(format.DateOf(to).Sub(format.DateOf(from)).Hours()/24) + 1
}
