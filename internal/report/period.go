package report

import (
	"time"

	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// Period is a half-open time range [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

// startOfWeek returns the Monday 00:00 of the week containing t
func startOfWeek(t time.Time) time.Time {
	day := t
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	day = day.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// PeriodFor resolves a dashboard filter into a concrete range relative to now
func PeriodFor(filter models.DashboardFilter, now time.Time) Period {
	switch filter {
	case models.FilterThisWeek:
		from := startOfWeek(now)
		return Period{From: from, To: from.AddDate(0, 0, 7)}
	case models.FilterLastWeek:
		to := startOfWeek(now)
		return Period{From: to.AddDate(0, 0, -7), To: to}
	case models.FilterThisMonth:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Period{From: from, To: from.AddDate(0, 1, 0)}
	case models.FilterLastMonth:
		to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Period{From: to.AddDate(0, -1, 0), To: to}
	case models.FilterThisYear:
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Period{From: from, To: from.AddDate(1, 0, 0)}
	case models.FilterLastYear:
		to := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Period{From: to.AddDate(-1, 0, 0), To: to}
	default:
		return PeriodFor(models.FilterThisMonth, now)
	}
}

// PreviousPeriodFor returns the comparison range for growth calculation.
// Only the "this*" filters have a defined previous period; for the others the
// second return value is false and no comparative growth is computed.
func PreviousPeriodFor(filter models.DashboardFilter, now time.Time) (Period, bool) {
	switch filter {
	case models.FilterThisWeek:
		return PeriodFor(models.FilterLastWeek, now), true
	case models.FilterThisMonth:
		return PeriodFor(models.FilterLastMonth, now), true
	case models.FilterThisYear:
		return PeriodFor(models.FilterLastYear, now), true
	default:
		return Period{}, false
	}
}

// PriorWeek returns the Mon-Sun week immediately before the current one,
// which feeds the weekly order histogram.
func PriorWeek(now time.Time) Period {
	to := startOfWeek(now)
	return Period{From: to.AddDate(0, 0, -7), To: to}
}
