// Package format renders dates and money for Spanish-speaking Colombian users.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	dateOnlyLayout = "2006-01-02"
	placeholder    = "-"
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Formatter converts instants into a fixed display zone. Date-only values are never shifted.
type Formatter struct {
	loc *time.Location
}

func New(loc *time.Location) Formatter {
	if loc == nil {
		loc = bogota()
	}
	return Formatter{loc: loc}
}

var Default = New(nil)

func bogota() *time.Location {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		return time.FixedZone("COT", -5*60*60)
	}
	return loc
}

func (f Formatter) Location() *time.Location {
	return f.loc
}

// Date renders "16 de octubre de 2026". Empty input yields "-", unparseable input is echoed.
func (f Formatter) Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return placeholder
	}
	t, ok := f.parse(raw)
	if !ok {
		return raw
	}
	return LongDate(t)
}

// DateTime renders "16/10/2026 09:05" in the display zone.
func (f Formatter) DateTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return placeholder
	}
	t, ok := f.parse(raw)
	if !ok {
		return raw
	}
	return t.Format("02/01/2006 15:04")
}

func (f Formatter) parse(raw string) (time.Time, bool) {
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999-07", "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(f.loc), true
		}
	}
	return time.Time{}, false
}

// Today returns the current calendar day in the display zone, as midnight UTC.
func (f Formatter) Today(now time.Time) time.Time {
	return DateOf(now.In(f.loc))
}

// DateOf strips the clock, keeping the calendar day as written in t's zone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

func ShortDate(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format("02/01/2006")
}

func FormatDate(raw string) string     { return Default.Date(raw) }
func FormatDateTime(raw string) string { return Default.DateTime(raw) }
func FormatShortDate(t time.Time) string {
	return ShortDate(t)
}

// FormatCurrency renders pesos, e.g. "$1.234.567,00".
func FormatCurrency(amount float64) string {
	return FormatMoney(decimal.NewFromFloat(amount))
}

func FormatMoney(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.COP).Display()
}

// FormatOptionalMoney renders nil as "-".
func FormatOptionalMoney(amount *decimal.Decimal) string {
	if amount == nil {
		return placeholder
	}
	return FormatMoney(*amount)
}
