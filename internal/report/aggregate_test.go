package report

import (
	"math"
	"testing"
	"time"

	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"zero previous with sales", 50, 0, 100},
		{"zero previous no sales", 0, 0, 0},
		{"fifty percent up", 75, 50, 50.0},
		{"decline", 50, 100, -50.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Growth(tt.current, tt.previous); !almostEqual(got, tt.want) {
				t.Fatalf("Growth(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestTypeBreakdown_SplitsEvenlyAcrossTypes(t *testing.T) {
	orders := []models.OrderSummary{
		{ID: "o1", TotalAmount: 100},
	}
	refs := []models.OrderTypeRef{
		{OrderID: "o1", ProductTypeID: 1, ProductTypeName: "Shirts"},
		{OrderID: "o1", ProductTypeID: 2, ProductTypeName: "Shoes"},
		// Duplicate ref to the same type must not double-count
		{OrderID: "o1", ProductTypeID: 1, ProductTypeName: "Shirts"},
	}

	perf := TypeBreakdown(orders, refs)
	if len(perf) != 2 {
		t.Fatalf("expected 2 types, got %d", len(perf))
	}
	for _, p := range perf {
		if !almostEqual(p.Sales, 50) {
			t.Errorf("type %s: sales = %v, want 50", p.Name, p.Sales)
		}
		if p.Orders != 1 {
			t.Errorf("type %s: orders = %d, want 1", p.Name, p.Orders)
		}
		if !almostEqual(p.Percentage, 50.0) {
			t.Errorf("type %s: percentage = %v, want 50.0", p.Name, p.Percentage)
		}
	}
}

func TestTypeBreakdown_SalesSumMatchesTotal(t *testing.T) {
	orders := []models.OrderSummary{
		{ID: "o1", TotalAmount: 40},
		{ID: "o2", TotalAmount: 60},
		{ID: "o3", TotalAmount: 25.5},
	}
	refs := []models.OrderTypeRef{
		{OrderID: "o1", ProductTypeID: 1, ProductTypeName: "Shirts"},
		{OrderID: "o2", ProductTypeID: 2, ProductTypeName: "Shoes"},
		{OrderID: "o3", ProductTypeID: 3, ProductTypeName: "Hats"},
	}

	perf := TypeBreakdown(orders, refs)

	var totalSales, totalPct float64
	for _, p := range perf {
		totalSales += p.Sales
		totalPct += p.Percentage
	}
	if math.Abs(totalSales-125.5) > 1e-9 {
		t.Errorf("sum of type sales = %v, want 125.5", totalSales)
	}
	if math.Abs(totalPct-100.0) > 0.2 {
		t.Errorf("sum of percentages = %v, want ~100", totalPct)
	}
}

func TestTypeBreakdown_IgnoresOrdersOutsideRange(t *testing.T) {
	orders := []models.OrderSummary{{ID: "o1", TotalAmount: 10}}
	refs := []models.OrderTypeRef{
		{OrderID: "o1", ProductTypeID: 1, ProductTypeName: "Shirts"},
		{OrderID: "stale", ProductTypeID: 2, ProductTypeName: "Shoes"},
	}

	perf := TypeBreakdown(orders, refs)
	if len(perf) != 1 || perf[0].Name != "Shirts" {
		t.Fatalf("expected only Shirts, got %+v", perf)
	}
}

func TestTopVariants_AccumulatesQuantityAndRevenue(t *testing.T) {
	sales := []models.VariantSale{
		{VariantID: "v1", ProductName: "Nord Parka", PropertyValues: []string{"Red", "M"}, Quantity: 2, Price: 10},
		{VariantID: "v1", ProductName: "Nord Parka", PropertyValues: []string{"Red", "M"}, Quantity: 3, Price: 10},
	}

	perf := TopVariants(sales, 5)
	if len(perf) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(perf))
	}
	got := perf[0]
	if got.Sales != 5 {
		t.Errorf("sales = %d, want 5", got.Sales)
	}
	if !almostEqual(got.Revenue, 50) {
		t.Errorf("revenue = %v, want 50", got.Revenue)
	}
	if got.Name != "Nord Parka - Red, M" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Growth != 0 {
		t.Errorf("growth = %v, want 0", got.Growth)
	}
}

func TestTopVariants_RanksByRevenueAndCaps(t *testing.T) {
	var sales []models.VariantSale
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, id := range ids {
		sales = append(sales, models.VariantSale{
			VariantID:   id,
			ProductName: "P" + id,
			Quantity:    1,
			Price:       float64(i + 1),
		})
	}

	perf := TopVariants(sales, 5)
	if len(perf) != 5 {
		t.Fatalf("expected top 5, got %d", len(perf))
	}
	if perf[0].VariantID != "g" {
		t.Errorf("top variant = %s, want g", perf[0].VariantID)
	}
	for i := 1; i < len(perf); i++ {
		if perf[i].Revenue > perf[i-1].Revenue {
			t.Errorf("ranking out of order at %d: %v > %v", i, perf[i].Revenue, perf[i-1].Revenue)
		}
	}
}

func TestVariantDisplayName(t *testing.T) {
	if got := VariantDisplayName("Parka", nil); got != "Parka" {
		t.Errorf("got %q", got)
	}
	if got := VariantDisplayName("Parka", []string{"Red", "M"}); got != "Parka - Red, M" {
		t.Errorf("got %q", got)
	}
}

func TestWeeklyHistogram(t *testing.T) {
	week := Period{
		From: time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), // a Monday
		To:   time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
	}
	orders := []models.OrderSummary{
		{ID: "o1", CreatedAt: time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)},  // Mon
		{ID: "o2", CreatedAt: time.Date(2026, 8, 17, 21, 0, 0, 0, time.UTC)}, // Mon
		{ID: "o3", CreatedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)}, // Sun
		{ID: "o4", CreatedAt: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},  // next week, excluded
	}

	hist := WeeklyHistogram(orders, week)
	if len(hist) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(hist))
	}
	if hist[0].Day != "Mon" || hist[0].Orders != 2 {
		t.Errorf("Mon bucket = %+v", hist[0])
	}
	if hist[6].Day != "Sun" || hist[6].Orders != 1 {
		t.Errorf("Sun bucket = %+v", hist[6])
	}
	for i := 1; i < 6; i++ {
		if hist[i].Orders != 0 {
			t.Errorf("bucket %s should be empty, got %d", hist[i].Day, hist[i].Orders)
		}
	}
}

func TestWeeklyHistogram_ClockChangeWeek(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Sofia")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// The clocks-back Sunday (2026-10-25) has 25 hours; a late-evening order
	// on it must still land in the Sunday bucket, not fall out of the week.
	week := Period{
		From: time.Date(2026, 10, 19, 0, 0, 0, 0, loc), // a Monday
		To:   time.Date(2026, 10, 26, 0, 0, 0, 0, loc),
	}
	orders := []models.OrderSummary{
		{ID: "o1", CreatedAt: time.Date(2026, 10, 25, 23, 30, 0, 0, loc)}, // Sun evening
		{ID: "o2", CreatedAt: time.Date(2026, 10, 24, 23, 30, 0, 0, loc)}, // Sat evening
	}

	hist := WeeklyHistogram(orders, week)
	if hist[6].Day != "Sun" || hist[6].Orders != 1 {
		t.Errorf("Sun bucket = %+v", hist[6])
	}
	if hist[5].Day != "Sat" || hist[5].Orders != 1 {
		t.Errorf("Sat bucket = %+v", hist[5])
	}
}

func TestTotals(t *testing.T) {
	sales, count := Totals([]models.OrderSummary{
		{TotalAmount: 10.5}, {TotalAmount: 20},
	})
	if !almostEqual(sales, 30.5) || count != 2 {
		t.Fatalf("Totals = (%v, %d), want (30.5, 2)", sales, count)
	}
}
