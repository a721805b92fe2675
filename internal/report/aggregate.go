// Package report computes the admin dashboard metrics from order data. The
// database layer supplies flat row sets; everything here is pure so the
// arithmetic (growth, splits, rankings) is testable without a database.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// Growth computes the period-over-period growth percentage. A previous value
// of zero yields 100 when anything was sold this period and 0 otherwise.
func Growth(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// TypeBreakdown allocates each order's total evenly across the distinct
// product types its items touch: an order touching N types contributes
// total/N to each type's sales and 1 to each type's order count. This is a
// deliberate approximation, not per-line-item revenue attribution.
func TypeBreakdown(orders []models.OrderSummary, refs []models.OrderTypeRef) []models.ProductTypePerformance {
	totals := make(map[string]float64, len(orders))
	for _, o := range orders {
		totals[o.ID] = o.TotalAmount
	}

	// Distinct types per order
	typesByOrder := make(map[string]map[int]string)
	for _, r := range refs {
		if _, ok := totals[r.OrderID]; !ok {
			continue
		}
		if typesByOrder[r.OrderID] == nil {
			typesByOrder[r.OrderID] = make(map[int]string)
		}
		typesByOrder[r.OrderID][r.ProductTypeID] = r.ProductTypeName
	}

	type acc struct {
		name   string
		orders int
		sales  float64
	}
	byType := make(map[int]*acc)
	for orderID, types := range typesByOrder {
		share := totals[orderID] / float64(len(types))
		for typeID, name := range types {
			a := byType[typeID]
			if a == nil {
				a = &acc{name: name}
				byType[typeID] = a
			}
			a.orders++
			a.sales += share
		}
	}

	var totalSales float64
	for _, a := range byType {
		totalSales += a.sales
	}

	perf := make([]models.ProductTypePerformance, 0, len(byType))
	for typeID, a := range byType {
		p := models.ProductTypePerformance{
			ProductTypeID: typeID,
			Name:          a.name,
			Orders:        a.orders,
			Sales:         a.sales,
		}
		if totalSales > 0 {
			p.Percentage = round1(a.sales / totalSales * 100)
		}
		perf = append(perf, p)
	}

	sort.Slice(perf, func(i, j int) bool {
		if perf[i].Sales != perf[j].Sales {
			return perf[i].Sales > perf[j].Sales
		}
		return perf[i].Name < perf[j].Name
	})

	return perf
}

// VariantDisplayName formats a variant for the top-variants report: the
// product name alone, or suffixed with its property values.
func VariantDisplayName(productName string, values []string) string {
	if len(values) == 0 {
		return productName
	}
	return productName + " - " + strings.Join(values, ", ")
}

// TopVariants ranks variants by revenue (sum of quantity*price per variant)
// and returns the top n. Per-variant growth is not computed here and stays 0.
func TopVariants(sales []models.VariantSale, n int) []models.VariantPerformance {
	type acc struct {
		name    string
		sales   int
		revenue float64
	}
	byVariant := make(map[string]*acc)
	var order []string
	for _, s := range sales {
		a := byVariant[s.VariantID]
		if a == nil {
			a = &acc{name: VariantDisplayName(s.ProductName, s.PropertyValues)}
			byVariant[s.VariantID] = a
			order = append(order, s.VariantID)
		}
		a.sales += s.Quantity
		a.revenue += float64(s.Quantity) * s.Price
	}

	perf := make([]models.VariantPerformance, 0, len(byVariant))
	for _, id := range order {
		a := byVariant[id]
		perf = append(perf, models.VariantPerformance{
			VariantID: id,
			Name:      a.name,
			Sales:     a.sales,
			Revenue:   a.revenue,
		})
	}

	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].Revenue > perf[j].Revenue
	})

	if len(perf) > n {
		perf = perf[:n]
	}
	return perf
}

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeeklyHistogram buckets order counts into the Mon-Sun days of the given
// week. Buckets are bounded by calendar midnights rather than elapsed hours,
// so DST transition days (23 or 25 hours long) count correctly. Orders
// outside the week are ignored.
func WeeklyHistogram(orders []models.OrderSummary, week Period) []models.DailyOrderCount {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = week.From.AddDate(0, 0, i)
	}

	counts := make([]int, 7)
	for _, o := range orders {
		if o.CreatedAt.Before(week.From) || !o.CreatedAt.Before(week.To) {
			continue
		}
		t := o.CreatedAt.In(week.From.Location())
		for i := 6; i >= 0; i-- {
			if !t.Before(days[i]) {
				counts[i]++
				break
			}
		}
	}

	histogram := make([]models.DailyOrderCount, 7)
	for i, label := range weekdayLabels {
		histogram[i] = models.DailyOrderCount{Day: label, Orders: counts[i]}
	}
	return histogram
}

// Totals sums order amounts and counts for a period
func Totals(orders []models.OrderSummary) (sales float64, count int) {
	for _, o := range orders {
		sales += o.TotalAmount
	}
	return sales, len(orders)
}
