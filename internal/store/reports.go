package store

import (
	"context"
	"time"

	"gadget-rental/internal/models"
)

// DashboardStats computes the admin summary counters. Revenue counts paid
// orders only; "today" is the calendar day of the given time.
func (s *Store) DashboardStats(ctx context.Context, today time.Time) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT
		    (SELECT COUNT(*) FROM gadgets) AS total_gadgets,
		    (SELECT COUNT(*) FROM rental_orders WHERE status = 'active') AS active_rentals,
		    (SELECT COUNT(*) FROM rental_orders WHERE status = 'booked') AS pending_approvals,
		    (SELECT COALESCE(SUM(total_price), 0)::BIGINT FROM rental_orders
		        WHERE payment_status = 'paid' AND DATE(created_at) = $1::DATE) AS today_revenue,
		    (SELECT COALESCE(SUM(total_price), 0)::BIGINT FROM rental_orders
		        WHERE payment_status = 'paid') AS total_revenue`,
		today.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// DailyRevenue aggregates paid orders by day, newest day first
func (s *Store) DailyRevenue(ctx context.Context) ([]models.DailyRevenueRow, error) {
	var rows []models.DailyRevenueRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT DATE(created_at) AS date,
		       COUNT(id) AS orders,
		       COALESCE(SUM(total_price), 0)::BIGINT AS revenue,
		       COALESCE(AVG(total_price), 0)::FLOAT8 AS avg_revenue,
		       COALESCE(MAX(total_price), 0) AS max_order,
		       COALESCE(MIN(total_price), 0) AS min_order,
		       COUNT(DISTINCT user_id) AS unique_customers,
		       COALESCE(SUM(total_days), 0)::BIGINT AS total_days,
		       COALESCE(AVG(total_days), 0)::FLOAT8 AS avg_days
		FROM rental_orders
		WHERE payment_status = 'paid'
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at) DESC`)
	return rows, err
}

// MostRentedGadgets aggregates paid orders by gadget, most rentals first
func (s *Store) MostRentedGadgets(ctx context.Context) ([]models.GadgetRentalRow, error) {
	var rows []models.GadgetRentalRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT g.name AS gadget,
		       g.category AS category,
		       COUNT(o.id) AS total_rentals,
		       COALESCE(SUM(o.total_days), 0)::BIGINT AS total_days,
		       COUNT(DISTINCT o.user_id) AS unique_users,
		       COALESCE(SUM(o.total_price), 0)::BIGINT AS total_revenue,
		       COALESCE(AVG(o.total_price), 0)::FLOAT8 AS avg_revenue,
		       COALESCE(AVG(o.total_days), 0)::FLOAT8 AS avg_days,
		       MAX(o.created_at) AS last_rented
		FROM gadgets g
		JOIN rental_orders o ON o.gadget_id = g.id
		WHERE o.payment_status = 'paid'
		GROUP BY g.id
		ORDER BY total_rentals DESC, g.id`)
	return rows, err
}

// UserActivity aggregates paid orders by customer, most orders first
func (s *Store) UserActivity(ctx context.Context) ([]models.UserActivityRow, error) {
	var rows []models.UserActivityRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT u.name, u.email, u.phone,
		       COUNT(o.id) AS orders,
		       COALESCE(SUM(o.total_price), 0)::BIGINT AS revenue,
		       COALESCE(AVG(o.total_price), 0)::FLOAT8 AS avg_revenue,
		       COALESCE(SUM(o.total_days), 0)::BIGINT AS total_days,
		       COALESCE(AVG(o.total_days), 0)::FLOAT8 AS avg_days,
		       MAX(o.created_at) AS last_order
		FROM users u
		JOIN rental_orders o ON o.user_id = u.id
		WHERE o.payment_status = 'paid'
		GROUP BY u.id
		ORDER BY orders DESC, u.id`)
	return rows, err
}
