package report

import (
	"testing"
	"time"

	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// Thursday 2026-08-27 12:00 UTC
var testNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func TestPeriodFor_ThisWeekStartsMonday(t *testing.T) {
	p := PeriodFor(models.FilterThisWeek, testNow)
	wantFrom := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if !p.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", p.From, wantFrom)
	}
	if !p.To.Equal(wantFrom.AddDate(0, 0, 7)) {
		t.Errorf("To = %v", p.To)
	}
}

func TestPeriodFor_SundayBelongsToSameWeek(t *testing.T) {
	sunday := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	p := PeriodFor(models.FilterThisWeek, sunday)
	wantFrom := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if !p.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", p.From, wantFrom)
	}
}

func TestPeriodFor_Months(t *testing.T) {
	this := PeriodFor(models.FilterThisMonth, testNow)
	if this.From.Day() != 1 || this.From.Month() != time.August {
		t.Errorf("thisMonth From = %v", this.From)
	}
	last := PeriodFor(models.FilterLastMonth, testNow)
	if last.From.Month() != time.July || !last.To.Equal(this.From) {
		t.Errorf("lastMonth = %+v", last)
	}
}

func TestPeriodFor_Years(t *testing.T) {
	this := PeriodFor(models.FilterThisYear, testNow)
	if this.From.Year() != 2026 || this.From.Month() != time.January || this.From.Day() != 1 {
		t.Errorf("thisYear From = %v", this.From)
	}
	last := PeriodFor(models.FilterLastYear, testNow)
	if last.From.Year() != 2025 || !last.To.Equal(this.From) {
		t.Errorf("lastYear = %+v", last)
	}
}

func TestPreviousPeriodFor(t *testing.T) {
	for _, filter := range []models.DashboardFilter{models.FilterThisWeek, models.FilterThisMonth, models.FilterThisYear} {
		if _, ok := PreviousPeriodFor(filter, testNow); !ok {
			t.Errorf("expected previous period for %s", filter)
		}
	}
	for _, filter := range []models.DashboardFilter{models.FilterLastWeek, models.FilterLastMonth, models.FilterLastYear} {
		if _, ok := PreviousPeriodFor(filter, testNow); ok {
			t.Errorf("did not expect previous period for %s", filter)
		}
	}
}

func TestPreviousPeriodFor_WeekIsContiguous(t *testing.T) {
	current := PeriodFor(models.FilterThisWeek, testNow)
	prev, ok := PreviousPeriodFor(models.FilterThisWeek, testNow)
	if !ok {
		t.Fatal("expected previous period")
	}
	if !prev.To.Equal(current.From) {
		t.Errorf("previous week To = %v, want %v", prev.To, current.From)
	}
	if prev.To.Sub(prev.From) != 7*24*time.Hour {
		t.Errorf("previous week span = %v", prev.To.Sub(prev.From))
	}
}

func TestPriorWeek(t *testing.T) {
	week := PriorWeek(testNow)
	wantFrom := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	if !week.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", week.From, wantFrom)
	}
	if !week.To.Equal(wantFrom.AddDate(0, 0, 7)) {
		t.Errorf("To = %v", week.To)
	}
}
