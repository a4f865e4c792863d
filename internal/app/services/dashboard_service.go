package services

import (
	"context"
	"time"

	"github.com/vemac/institute/internal/app/models"
)

// DashboardService computes the office dashboard totals
type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardServiceImpl struct {
	store DashboardStore
	now   func() time.Time
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(store DashboardStore) DashboardService {
	return &dashboardServiceImpl{store: store, now: time.Now}
}

// Stats returns the totals; admissions are counted for the current calendar year
func (s *dashboardServiceImpl) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return s.store.Stats(ctx, currentYear(s.now))
}
