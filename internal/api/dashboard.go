package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modabox/modabox/backend/catalog-service/internal/models"
	"github.com/modabox/modabox/backend/catalog-service/internal/report"
)

// recentOrdersLimit caps the dashboard's recent-orders card; the full order
// list lives behind /admin/orders.
const recentOrdersLimit = 4

// GetDashboardStats handles GET /admin/dashboard. The core totals are
// required; the type breakdown, top variants, weekly histogram and recent
// orders degrade to empty sections when their queries fail so the dashboard
// still renders.
func (h *Handler) GetDashboardStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	filter := models.DashboardFilter(c.DefaultQuery("filter", string(models.FilterThisMonth)))
	if !filter.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: must be one of thisWeek, lastWeek, thisMonth, lastMonth, thisYear, lastYear"})
		return
	}

	now := time.Now()
	period := report.PeriodFor(filter, now)

	orders, err := h.db.OrdersInRange(ctx, period.From, period.To)
	if err != nil {
		log.Printf("Dashboard: failed to load orders for %s: %v", filter, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load dashboard data"})
		return
	}

	stats := models.DashboardStats{
		WeeklyOrders:    []models.DailyOrderCount{},
		TypePerformance: []models.ProductTypePerformance{},
		RecentOrders:    []models.Order{},
		TopVariants:     []models.VariantPerformance{},
	}
	stats.TotalSales, stats.TotalOrders = report.Totals(orders)

	customers, err := h.db.CountDistinctCustomers(ctx, period.From, period.To)
	if err != nil {
		log.Printf("Dashboard: failed to count customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load dashboard data"})
		return
	}
	stats.TotalCustomers = customers

	products, err := h.db.CountProducts(ctx)
	if err != nil {
		log.Printf("Dashboard: failed to count products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load dashboard data"})
		return
	}
	stats.TotalProducts = products

	// Growth is only defined for current periods with a completed predecessor
	if prev, ok := report.PreviousPeriodFor(filter, now); ok {
		prevOrders, err := h.db.OrdersInRange(ctx, prev.From, prev.To)
		if err != nil {
			log.Printf("Dashboard: failed to load previous-period orders: %v", err)
		} else {
			prevSales, prevCount := report.Totals(prevOrders)
			stats.SalesGrowth = report.Growth(stats.TotalSales, prevSales)
			stats.OrdersGrowth = report.Growth(float64(stats.TotalOrders), float64(prevCount))

			prevCustomers, err := h.db.CountDistinctCustomers(ctx, prev.From, prev.To)
			if err != nil {
				log.Printf("Dashboard: failed to count previous-period customers: %v", err)
			} else {
				stats.CustomersGrowth = report.Growth(float64(customers), float64(prevCustomers))
			}
		}
	}

	// Optional sections: failures are logged, not fatal

	week := report.PriorWeek(now)
	weekOrders, err := h.db.OrdersInRange(ctx, week.From, week.To)
	if err != nil {
		log.Printf("Dashboard: failed to load weekly histogram orders: %v", err)
	} else {
		stats.WeeklyOrders = report.WeeklyHistogram(weekOrders, week)
	}

	refs, err := h.db.OrderTypeRefs(ctx, period.From, period.To)
	if err != nil {
		log.Printf("Dashboard: failed to load type breakdown: %v", err)
	} else {
		stats.TypePerformance = report.TypeBreakdown(orders, refs)
	}

	sales, err := h.db.VariantSalesInRange(ctx, period.From, period.To)
	if err != nil {
		log.Printf("Dashboard: failed to load variant sales: %v", err)
	} else {
		stats.TopVariants = report.TopVariants(sales, 5)
	}

	recent, err := h.db.ListRecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		log.Printf("Dashboard: failed to load recent orders: %v", err)
	} else if recent != nil {
		stats.RecentOrders = recent
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats, "filter": filter})
}
