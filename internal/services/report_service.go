package services

import (
	"context"
	"fmt"
	"time"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"

	"github.com/jmoiron/sqlx"
)

// Report periods and limits.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	summaryPopularLimit = 5
	frequentLimit       = 10
)

// --- ReportService Interface ---
type ReportService interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
	DailyRevenue(ctx context.Context, period string) ([]models.RevenuePoint, error)
	MonthlyRevenue(ctx context.Context) ([]models.MonthlyRevenuePoint, error)
	DetailedReport(ctx context.Context) (*models.DetailedReport, error)
}

type reportService struct {
	store      TxRunner
	reportRepo repositories.ReportRepository
	now        func() time.Time
}

// NewReportService creates a new instance of ReportService.
// "Today" is the server-local date at call time.
func NewReportService(store TxRunner, repo repositories.ReportRepository) ReportService {
	return &reportService{store: store, reportRepo: repo, now: time.Now}
}

// periodDays maps a period name to its window length; anything but weekly is 30 days.
func periodDays(period string) int {
	if period == PeriodWeekly {
		return 7
	}
	return 30
}

// windowStart returns the first date of a window of days ending today.
func windowStart(today time.Time, days int) string {
	return today.AddDate(0, 0, -days).Format(dateLayout)
}

func (s *reportService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	today := s.now().Format(dateLayout)
	summary := &models.DashboardSummary{}
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if summary.TotalCustomers, err = s.reportRepo.CountCustomers(ctx, tx); err != nil {
			return err
		}
		if summary.PendingAppointments, err = s.reportRepo.CountAppointmentsByStatus(ctx, tx, models.AppointmentStatusPending); err != nil {
			return err
		}
		if summary.RevenueToday, err = s.reportRepo.RevenueOn(ctx, tx, today); err != nil {
			return err
		}
		if summary.TotalRevenue, err = s.reportRepo.TotalRevenue(ctx, tx); err != nil {
			return err
		}
		summary.PopularServices, err = s.reportRepo.PopularServices(ctx, tx, summaryPopularLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard summary: %w", err)
	}
	return summary, nil
}

func (s *reportService) DailyRevenue(ctx context.Context, period string) ([]models.RevenuePoint, error) {
	since := windowStart(s.now(), periodDays(period))
	var points []models.RevenuePoint
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		points, err = s.reportRepo.DailyRevenueSince(ctx, tx, since)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue: %w", err)
	}
	return points, nil
}

// MonthlyRevenue returns completed revenue per YYYY-MM across all history.
func (s *reportService) MonthlyRevenue(ctx context.Context) ([]models.MonthlyRevenuePoint, error) {
	var points []models.MonthlyRevenuePoint
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		points, err = s.reportRepo.MonthlyRevenue(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenue: %w", err)
	}
	return points, nil
}

func (s *reportService) DetailedReport(ctx context.Context) (*models.DetailedReport, error) {
	since := windowStart(s.now(), periodDays(PeriodMonthly))
	report := &models.DetailedReport{}
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if report.DailyRevenue, err = s.reportRepo.DailyRevenueSince(ctx, tx, since); err != nil {
			return err
		}
		if report.MonthlyRevenue, err = s.reportRepo.MonthlyRevenue(ctx, tx); err != nil {
			return err
		}
		if report.PopularServices, err = s.reportRepo.PopularServices(ctx, tx, 0); err != nil {
			return err
		}
		report.FrequentCustomers, err = s.reportRepo.FrequentCustomers(ctx, tx, frequentLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build detailed report: %w", err)
	}
	return report, nil
}
