package models

import "time"

// DashboardStats is the admin landing page summary
type DashboardStats struct {
	TotalGadgets     int      `db:"total_gadgets" json:"total_gadgets"`
	ActiveRentals    int      `db:"active_rentals" json:"active_rentals"`
	PendingApprovals int      `db:"pending_approvals" json:"pending_approvals"`
	TodayRevenue     int64    `db:"today_revenue" json:"today_revenue"`
	TotalRevenue     int64    `db:"total_revenue" json:"total_revenue"`
	LowStockAlerts   int      `db:"-" json:"low_stock_alerts"`
	LowStockItems    []Gadget `db:"-" json:"low_stock_items"`
}

// DailyRevenueRow aggregates paid orders per calendar day
type DailyRevenueRow struct {
	Date            time.Time `db:"date" json:"date"`
	Orders          int       `db:"orders" json:"orders"`
	Revenue         int64     `db:"revenue" json:"revenue"`
	AvgRevenue      float64   `db:"avg_revenue" json:"avg_revenue"`
	MaxOrder        int64     `db:"max_order" json:"max_order"`
	MinOrder        int64     `db:"min_order" json:"min_order"`
	UniqueCustomers int       `db:"unique_customers" json:"unique_customers"`
	TotalDays       int       `db:"total_days" json:"total_days"`
	AvgDays         float64   `db:"avg_days" json:"avg_days"`
}

// GadgetRentalRow aggregates paid orders per gadget
type GadgetRentalRow struct {
	Gadget       string     `db:"gadget" json:"gadget"`
	Category     string     `db:"category" json:"category"`
	TotalRentals int        `db:"total_rentals" json:"total_rentals"`
	TotalDays    int        `db:"total_days" json:"total_days"`
	UniqueUsers  int        `db:"unique_users" json:"unique_users"`
	TotalRevenue int64      `db:"total_revenue" json:"total_revenue"`
	AvgRevenue   float64    `db:"avg_revenue" json:"avg_revenue"`
	AvgDays      float64    `db:"avg_days" json:"avg_days"`
	LastRented   *time.Time `db:"last_rented" json:"last_rented,omitempty"`
}

// UserActivityRow aggregates paid orders per customer
type UserActivityRow struct {
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Phone      string     `db:"phone" json:"phone"`
	Orders     int        `db:"orders" json:"orders"`
	Revenue    int64      `db:"revenue" json:"revenue"`
	AvgRevenue float64    `db:"avg_revenue" json:"avg_revenue"`
	TotalDays  int        `db:"total_days" json:"total_days"`
	AvgDays    float64    `db:"avg_days" json:"avg_days"`
	LastOrder  *time.Time `db:"last_order" json:"last_order,omitempty"`
}
