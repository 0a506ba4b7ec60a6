package periods

import (
	"fmt"
	"math"
	"sort"
	"time"

	"hrcontracts/internal/format"
	"hrcontracts/internal/platform/config"
)

func inclusiveDays(from, to time.Time) int {
	return int(format.DateOf(to).Sub(format.DateOf(from)).Hours()/24) + 1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sorted(periods []Period) []Period {
	out := append([]Period(nil), periods...)
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroPeriodo < out[j].NumeroPeriodo })
	return out
}

// CheckInvariants verifies numbering from 1, a single current period that is the last one,
// and that every period starts the day after the previous one ends.
func CheckInvariants(periods []Period) error {
	if len(periods) == 0 {
		return ErrNoPeriods
	}
	ps := sorted(periods)
	current := 0
	for i, p := range ps {
		if p.NumeroPeriodo != i+1 {
			return fmt.Errorf("%w: expected period %d, found %d", ErrBrokenSequence, i+1, p.NumeroPeriodo)
		}
		if p.FechaFin.Before(p.FechaInicio) {
			return fmt.Errorf("%w: period %d ends before it starts", ErrBrokenSequence, p.NumeroPeriodo)
		}
		if i > 0 && !format.DateOf(p.FechaInicio).Equal(format.DateOf(ps[i-1].FechaFin).AddDate(0, 0, 1)) {
			return fmt.Errorf("%w: period %d does not start the day after period %d", ErrBrokenSequence, p.NumeroPeriodo, ps[i-1].NumeroPeriodo)
		}
		if p.EsPeriodoActual {
			current++
		}
	}
	if current != 1 {
		return fmt.Errorf("%w: %d current periods", ErrBrokenSequence, current)
	}
	if !ps[len(ps)-1].EsPeriodoActual {
		return fmt.Errorf("%w: current period is not the latest", ErrBrokenSequence)
	}
	return nil
}

// PlanExtension returns period N+1 as the database will create it.
func PlanExtension(periods []Period, newEnd time.Time, tipo string) (Period, error) {
	if tipo != TipoProrrogaAutomatica && tipo != TipoProrrogaAcordada {
		return Period{}, ErrInvalidTipo
	}
	if err := CheckInvariants(periods); err != nil {
		return Period{}, err
	}
	ps := sorted(periods)
	cur := ps[len(ps)-1]
	end := format.DateOf(newEnd)
	if !end.After(format.DateOf(cur.FechaFin)) {
		return Period{}, ErrEndNotAfterCurrent
	}
	return Period{
		ContractID:      cur.ContractID,
		NumeroPeriodo:   cur.NumeroPeriodo + 1,
		FechaInicio:     format.DateOf(cur.FechaFin).AddDate(0, 0, 1),
		FechaFin:        end,
		TipoPeriodo:     tipo,
		EsPeriodoActual: true,
	}, nil
}

// ValidateExtension applies the fixed-term limits to a proposed new end date.
func ValidateExtension(status FixedStatus, newEnd time.Time, rules config.LaborRules) (Extension, error) {
	curEnd := format.DateOf(status.FechaFinActual)
	end := format.DateOf(newEnd)
	if !end.After(curEnd) {
		return Extension{}, fmt.Errorf("%w (%s)", ErrEndNotAfterCurrent, format.ShortDate(curEnd))
	}

	start := curEnd.AddDate(0, 0, 1)
	days := inclusiveDays(start, end)
	number := status.ProximoPeriodo - 1
	if number >= rules.MinDaysFromExtension && days < rules.MinExtensionDays {
		return Extension{}, fmt.Errorf("%w: a partir de la prórroga %d la duración mínima es %d días (propuesta: %d)",
			ErrExtensionTooShort, rules.MinDaysFromExtension, rules.MinExtensionDays, days)
	}

	total := status.AnosTotales + float64(days)/rules.DaysPerYear
	if total > rules.MaxFixedTermYears {
		return Extension{}, fmt.Errorf("%w: la duración total sería %.2f años y supera el máximo de %.0f; el contrato debe convertirse a término indefinido",
			ErrMustBeIndefinite, total, rules.MaxFixedTermYears)
	}

	return Extension{
		Numero:          status.ProximoPeriodo,
		FechaInicio:     start,
		FechaFin:        end,
		Dias:            days,
		AnosResultantes: round2(total),
	}, nil
}

// Summarize computes the same figures as get_contract_fixed_status from the period rows.
func Summarize(periods []Period, rules config.LaborRules) (FixedStatus, error) {
	if err := CheckInvariants(periods); err != nil {
		return FixedStatus{}, err
	}
	ps := sorted(periods)
	first, cur := ps[0], ps[len(ps)-1]
	days := inclusiveDays(first.FechaInicio, cur.FechaFin)
	years := round2(float64(days) / rules.DaysPerYear)

	status := FixedStatus{
		TotalPeriodos:       len(ps),
		PeriodoActual:       cur.NumeroPeriodo,
		ProximoPeriodo:      cur.NumeroPeriodo + 1,
		FechaInicioContrato: format.DateOf(first.FechaInicio),
		FechaFinActual:      format.DateOf(cur.FechaFin),
		DiasTotales:         days,
		AnosTotales:         years,
		DebeSerIndefinido:   years >= rules.MaxFixedTermYears,
	}
	status.AlertaLegal = legalAlert(status, rules)
	return status, nil
}

func legalAlert(s FixedStatus, rules config.LaborRules) *string {
	var msg string
	switch {
	case s.DebeSerIndefinido:
		msg = fmt.Sprintf("El contrato alcanzó %.0f años de duración: debe convertirse a término indefinido", rules.MaxFixedTermYears)
	case s.PeriodoActual >= rules.MinDaysFromExtension:
		msg = "A partir de la quinta prórroga cada prórroga debe ser de mínimo un año"
	default:
		return nil
	}
	return &msg
}

// ElapsedDays counts the days worked from the first period up to today, capped at the current end.
func ElapsedDays(s FixedStatus, today time.Time) int {
	day := format.DateOf(today)
	if day.Before(s.FechaInicioContrato) {
		return 0
	}
	if day.After(s.FechaFinActual) {
		day = s.FechaFinActual
	}
	return inclusiveDays(s.FechaInicioContrato, day)
}
