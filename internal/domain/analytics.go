package domain

import "time"

// CustomerSpending aggregates a customer's completed orders. LastOrderDate
// is nil when the customer has no completed orders.
type CustomerSpending struct {
	CustomerID        string     `json:"customerId"`
	TotalSpent        float64    `json:"totalSpent"`
	AverageOrderValue float64    `json:"averageOrderValue"`
	LastOrderDate     *time.Time `json:"lastOrderDate"`
}

// TopProduct is one entry of the top-selling products ranking
type TopProduct struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	TotalSold int64  `json:"totalSold"`
}

// CategoryRevenue is line-level revenue (quantity × price at purchase)
// summed per product category
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// SalesAnalytics aggregates completed orders inside a date range.
// TotalRevenue sums order-level totals while CategoryBreakdown sums
// line-level revenue; the two are independent and need not reconcile.
type SalesAnalytics struct {
	TotalRevenue      float64           `json:"totalRevenue"`
	CompletedOrders   int64             `json:"completedOrders"`
	CategoryBreakdown []CategoryRevenue `json:"categoryBreakdown"`
}
