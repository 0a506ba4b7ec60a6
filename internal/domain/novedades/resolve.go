package novedades

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrcontracts/internal/domain/contracts"
)

const (
	SourceNovedad  = "novedad"
	SourceContrato = "contrato"
	SourceNone     = "ninguno"
)

// Fold keeps the latest row per field key. Rows are expected newest first; on equal
// created_at the row seen first wins.
func Fold(rows []Novedad) map[string]Novedad {
	latest := make(map[string]Novedad, len(rows))
	for _, n := range rows {
		cur, ok := latest[n.Field]
		if !ok || n.CreatedAt.After(cur.CreatedAt) {
			latest[n.Field] = n
		}
	}
	return latest
}

// Resolved is a current value together with where it came from.
type Resolved struct {
	Value         *string    `json:"value"`
	Concepto      *string    `json:"concepto,omitempty"`
	Source        string     `json:"source"`
	NovedadID     string     `json:"novedad_id,omitempty"`
	FechaEfectiva *time.Time `json:"fecha_efectiva,omitempty"`
}

type Resolver interface {
	Resolve(field string) (Resolved, bool)
}

// ResolutionChain asks each source in order and returns the first answer.
type ResolutionChain []Resolver

func (c ResolutionChain) Resolve(field string) Resolved {
	for _, src := range c {
		if r, ok := src.Resolve(field); ok {
			return r
		}
	}
	return Resolved{Source: SourceNone}
}

type latestSource map[string]Novedad

func (s latestSource) Resolve(field string) (Resolved, bool) {
	n, ok := s[field]
	if !ok || n.ValorNuevo == nil {
		return Resolved{}, false
	}
	fecha := n.FechaEfectiva
	return Resolved{
		Value:         n.ValorNuevo,
		Concepto:      n.Concepto,
		Source:        SourceNovedad,
		NovedadID:     n.ID,
		FechaEfectiva: &fecha,
	}, true
}

type baseSource map[string]Resolved

func (s baseSource) Resolve(field string) (Resolved, bool) {
	r, ok := s[field]
	return r, ok
}

// ChainFor resolves a category from its folded rows first and the contract columns second.
func ChainFor(c contracts.Contract, cat Category, rows []Novedad) ResolutionChain {
	chain := ResolutionChain{}
	if rows != nil {
		chain = append(chain, latestSource(Fold(rows)))
	}
	return append(chain, baseSource(baseValues(c, cat)))
}

func baseValues(c contracts.Contract, cat Category) map[string]Resolved {
	out := map[string]Resolved{}
	put := func(field string, value *string, concepto *string) {
		out[field] = Resolved{Value: value, Concepto: concepto, Source: SourceContrato}
	}
	switch cat {
	case CatDatosPersonales:
		put(FieldNombres, strPtr(strings.TrimSpace(c.PrimerNombre+" "+c.SegundoNombre)), nil)
		put(FieldApellidos, strPtr(strings.TrimSpace(c.PrimerApellido+" "+c.SegundoApellido)), nil)
		put(FieldCelular, optional(c.Celular), nil)
		put(FieldCorreo, optional(c.Correo), nil)
		put(FieldDireccion, optional(c.Direccion), nil)
	case CatEconomica:
		put(FieldSalario, moneyString(c.Salario), nil)
		put(FieldAuxilioSalarial, moneyString(c.AuxilioSalarial), optional(c.AuxilioSalarialConcepto))
		put(FieldAuxilioNoSalarial, moneyString(c.AuxilioNoSalarial), optional(c.AuxilioNoSalarialConcepto))
		put(FieldAuxilioTransporte, moneyString(c.AuxilioTransporte), nil)
	case CatEntidad:
		put(FieldEPS, optional(c.EPSNombre), nil)
		put(FieldFondoPension, optional(c.FondoPensionNombre), nil)
		put(FieldFondoCesantias, optional(c.FondoCesantiasNombre), nil)
		put(FieldARL, optional(c.ARLNombre), nil)
	case CatCargo:
		put(FieldCargo, optional(c.Cargo), nil)
	case CatBeneficios:
		put(FieldHijos, strPtr(strconv.Itoa(c.Hijos)), nil)
		put(FieldMadre, flagString(c.Madre != 0), nil)
		put(FieldPadre, flagString(c.Padre != 0), nil)
		put(FieldConyuge, flagString(c.Conyuge != 0), nil)
	}
	return out
}

// ParseFlag accepts the spellings stored for yes/no beneficiaries.
func ParseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("novedades: invalid flag %q", raw)
}

// IsFlagField reports whether the beneficiary key holds a yes/no value.
func IsFlagField(field string) bool {
	return field == FieldMadre || field == FieldPadre || field == FieldConyuge
}

func normalizeFlag(r Resolved) Resolved {
	if r.Value == nil {
		return r
	}
	if b, err := ParseFlag(*r.Value); err == nil {
		r.Value = flagString(b)
	}
	return r
}

func flagString(b bool) *string {
	return strPtr(strconv.FormatBool(b))
}

func strPtr(s string) *string { return &s }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func moneyString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	return strPtr(d.String())
}
