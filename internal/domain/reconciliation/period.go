// Package reconciliation contiene el cálculo puro de la liquidación semanal:
// periodos ISO, varianza y estados.
package reconciliation

import (
	"time"

	"github.com/jhoicas/sedes-inventario/internal/domain"
)

// WeeksInYear número de semanas ISO del año (52 o 53).
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// WeekRange devuelve [lunes 00:00, lunes siguiente 00:00) de la semana ISO en loc.
func WeekRange(week, year int, loc *time.Location) (time.Time, time.Time, error) {
	if year < 2000 || year > 9999 {
		return time.Time{}, time.Time{}, domain.NewValidationError("year", "año fuera de rango: %d", year)
	}
	if week < 1 || week > WeeksInYear(year) {
		return time.Time{}, time.Time{}, domain.NewValidationError("week", "semana %d no existe en %d", week, year)
	}
	if loc == nil {
		loc = time.UTC
	}
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	start := jan4.AddDate(0, 0, -offset+(week-1)*7)
	return start, start.AddDate(0, 0, 7), nil
}

// PreviousWeek semana ISO anterior a now (la que se liquida).
func PreviousWeek(now time.Time) (week, year int) {
	year, week = now.AddDate(0, 0, -7).ISOWeek()
	return week, year
}

// IsLiquidationWindow la liquidación de la semana anterior se hace de sábado a lunes.
func IsLiquidationWindow(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday, time.Monday:
		return true
	}
	return false
}
