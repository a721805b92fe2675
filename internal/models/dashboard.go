package models

import (
	"time"
)

// DashboardFilter selects the reporting period for the admin dashboard
type DashboardFilter string

const (
	FilterThisWeek  DashboardFilter = "thisWeek"
	FilterLastWeek  DashboardFilter = "lastWeek"
	FilterThisMonth DashboardFilter = "thisMonth"
	FilterLastMonth DashboardFilter = "lastMonth"
	FilterThisYear  DashboardFilter = "thisYear"
	FilterLastYear  DashboardFilter = "lastYear"
)

// IsValid checks if the dashboard filter is valid
func (f DashboardFilter) IsValid() bool {
	switch f {
	case FilterThisWeek, FilterLastWeek, FilterThisMonth, FilterLastMonth, FilterThisYear, FilterLastYear:
		return true
	default:
		return false
	}
}

// DashboardStats is the aggregated metrics object for the admin dashboard
type DashboardStats struct {
	TotalSales      float64                  `json:"total_sales"`
	TotalOrders     int                      `json:"total_orders"`
	TotalCustomers  int                      `json:"total_customers"`
	TotalProducts   int                      `json:"total_products"`
	SalesGrowth     float64                  `json:"sales_growth"`
	OrdersGrowth    float64                  `json:"orders_growth"`
	CustomersGrowth float64                  `json:"customers_growth"`
	WeeklyOrders    []DailyOrderCount        `json:"weekly_orders"`
	TypePerformance []ProductTypePerformance `json:"product_type_performance"`
	RecentOrders    []Order                  `json:"recent_orders"`
	TopVariants     []VariantPerformance     `json:"top_variants"`
}

// DailyOrderCount is one bucket of the Mon-Sun prior-week histogram
type DailyOrderCount struct {
	Day    string `json:"day"`
	Orders int    `json:"orders"`
}

// ProductTypePerformance is the per-product-type slice of the breakdown
type ProductTypePerformance struct {
	ProductTypeID int     `json:"product_type_id"`
	Name          string  `json:"name"`
	Orders        int     `json:"orders"`
	Sales         float64 `json:"sales"`
	Percentage    float64 `json:"percentage"`
}

// VariantPerformance is one row of the top-variants report
type VariantPerformance struct {
	VariantID string  `json:"variant_id"`
	Name      string  `json:"name"`
	Sales     int     `json:"sales"`
	Revenue   float64 `json:"revenue"`
	Growth    float64 `json:"growth"`
}

// OrderTypeRef links an order item to its resolved product type, as needed by
// the per-type breakdown. VariantID is nil when the item only carries a
// product-level reference.
type OrderTypeRef struct {
	OrderID         string
	VariantID       *string
	ProductTypeID   int
	ProductTypeName string
}

// OrderSummary is the minimal order shape the aggregator consumes
type OrderSummary struct {
	ID          string
	TotalAmount float64
	CreatedAt   time.Time
}

// VariantSale is one order-item row feeding the top-variants report
type VariantSale struct {
	VariantID      string
	ProductName    string
	PropertyValues []string
	Quantity       int
	Price          float64
}
