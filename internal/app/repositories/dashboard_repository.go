package repositories

import (
	"context"

	"github.com/vemac/institute/internal/app/models"
	"github.com/vemac/institute/internal/db"
)

// DashboardRepository computes installation-wide totals
type DashboardRepository struct {
	db *db.PostgresDB
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(database *db.PostgresDB) *DashboardRepository {
	return &DashboardRepository{db: database}
}

const dashboardStatsSQL = `
SELECT
	(SELECT COUNT(*) FROM student_data),
	(SELECT COUNT(*) FROM student_data WHERE is_active),
	(SELECT COUNT(*) FROM student_data WHERE status = 'Pending'),
	(SELECT COUNT(*) FROM student_data WHERE EXTRACT(YEAR FROM admission_date) = $1),
	(SELECT COALESCE(SUM(amount), 0)::numeric(14,2)::text FROM student_fees WHERE status = 'Paid'),
	(SELECT COALESCE(SUM(amount), 0)::numeric(14,2)::text FROM student_fees WHERE status = 'Pending'),
	(SELECT COUNT(*) FROM users WHERE status = 'active'),
	(SELECT COUNT(*) FROM institute_branch WHERE status = 'active')`

// Stats returns the dashboard totals for year
func (r *DashboardRepository) Stats(ctx context.Context, year int) (*models.DashboardStats, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	s := &models.DashboardStats{}
	err := r.db.Pool.QueryRow(ctx, dashboardStatsSQL, year).Scan(
		&s.TotalStudents, &s.ActiveStudents, &s.PendingAdmissions, &s.AdmissionsThisYear,
		&s.FeesCollected, &s.PendingDues, &s.ActiveUsers, &s.ActiveInstitutes,
	)
	if err != nil {
		return nil, wrapDBError(ctx, "dashboard stats", err)
	}
	return s, nil
}
