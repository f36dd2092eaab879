package service

import (
	"context"
	"fmt"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/util"
)

// AdminService serves the back-office dashboard and reports
type AdminService struct {
	store    Store
	settings Settings
	now      func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(store Store, settings Settings) *AdminService {
	return &AdminService{store: store, settings: settings, now: time.Now}
}

// Dashboard gathers the summary counters and low-stock alerts
func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.Dashboard")
	defer span.End()

	stats, err := s.store.DashboardStats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard: %w", err)
	}

	low, err := s.store.ListLowStockGadgets(ctx, s.settings.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	stats.LowStockItems = low
	stats.LowStockAlerts = len(low)
	return stats, nil
}

// DailyRevenue reports paid revenue per day
func (s *AdminService) DailyRevenue(ctx context.Context) ([]models.DailyRevenueRow, error) {
	return s.store.DailyRevenue(ctx)
}

// MostRented reports paid rentals per gadget
func (s *AdminService) MostRented(ctx context.Context) ([]models.GadgetRentalRow, error) {
	return s.store.MostRentedGadgets(ctx)
}

// UserActivity reports paid rentals per customer
func (s *AdminService) UserActivity(ctx context.Context) ([]models.UserActivityRow, error) {
	return s.store.UserActivity(ctx)
}
