package repositories

import (
	"context"

	"salon_crm_backend/internal/models"
)

// ReportRepository runs the read-only aggregate queries behind the dashboard.
// Every method rescans the current rows; nothing is cached.
type ReportRepository interface {
	CountCustomers(ctx context.Context, exec SQLExecutor) (int, error)
	CountAppointmentsByStatus(ctx context.Context, exec SQLExecutor, status string) (int, error)
	RevenueOn(ctx context.Context, exec SQLExecutor, date string) (float64, error)
	TotalRevenue(ctx context.Context, exec SQLExecutor) (float64, error)
	DailyRevenueSince(ctx context.Context, exec SQLExecutor, since string) ([]models.RevenuePoint, error)
	MonthlyRevenue(ctx context.Context, exec SQLExecutor) ([]models.MonthlyRevenuePoint, error)
	PopularServices(ctx context.Context, exec SQLExecutor, limit int) ([]models.PopularService, error)
	FrequentCustomers(ctx context.Context, exec SQLExecutor, limit int) ([]models.FrequentCustomer, error)
}

type reportRepository struct{}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository() ReportRepository {
	return &reportRepository{}
}

func (r *reportRepository) CountCustomers(ctx context.Context, exec SQLExecutor) (int, error) {
	var n int
	if err := exec.GetContext(ctx, &n, `SELECT COUNT(*) FROM customers`); err != nil {
		return 0, wrapDBError("counting customers", err)
	}
	return n, nil
}

func (r *reportRepository) CountAppointmentsByStatus(ctx context.Context, exec SQLExecutor, status string) (int, error) {
	var n int
	if err := exec.GetContext(ctx, &n, `SELECT COUNT(*) FROM appointments WHERE status = $1`, status); err != nil {
		return 0, wrapDBError("counting appointments", err)
	}
	return n, nil
}

// RevenueOn sums total_amount of completed appointments dated on date (YYYY-MM-DD).
func (r *reportRepository) RevenueOn(ctx context.Context, exec SQLExecutor, date string) (float64, error) {
	var revenue float64
	err := exec.GetContext(ctx, &revenue,
		`SELECT COALESCE(SUM(total_amount), 0) FROM appointments WHERE status = $1 AND date = $2`,
		models.AppointmentStatusCompleted, date)
	if err != nil {
		return 0, wrapDBError("summing revenue for date", err)
	}
	return revenue, nil
}

// TotalRevenue sums total_amount of every completed appointment.
func (r *reportRepository) TotalRevenue(ctx context.Context, exec SQLExecutor) (float64, error) {
	var revenue float64
	err := exec.GetContext(ctx, &revenue,
		`SELECT COALESCE(SUM(total_amount), 0) FROM appointments WHERE status = $1`,
		models.AppointmentStatusCompleted)
	if err != nil {
		return 0, wrapDBError("summing total revenue", err)
	}
	return revenue, nil
}

// DailyRevenueSince groups completed revenue by date for dates on or after since.
func (r *reportRepository) DailyRevenueSince(ctx context.Context, exec SQLExecutor, since string) ([]models.RevenuePoint, error) {
	query := `SELECT to_char(a.date, 'YYYY-MM-DD') AS date, SUM(a.total_amount) AS revenue
	          FROM appointments a
	          WHERE a.status = $1 AND a.date >= $2
	          GROUP BY a.date
	          ORDER BY a.date`
	points := []models.RevenuePoint{}
	if err := exec.SelectContext(ctx, &points, query, models.AppointmentStatusCompleted, since); err != nil {
		return nil, wrapDBError("daily revenue", err)
	}
	return points, nil
}

// MonthlyRevenue groups all completed revenue by YYYY-MM.
func (r *reportRepository) MonthlyRevenue(ctx context.Context, exec SQLExecutor) ([]models.MonthlyRevenuePoint, error) {
	query := `SELECT to_char(a.date, 'YYYY-MM') AS month, SUM(a.total_amount) AS revenue
	          FROM appointments a
	          WHERE a.status = $1
	          GROUP BY month
	          ORDER BY month`
	points := []models.MonthlyRevenuePoint{}
	if err := exec.SelectContext(ctx, &points, query, models.AppointmentStatusCompleted); err != nil {
		return nil, wrapDBError("monthly revenue", err)
	}
	return points, nil
}

// PopularServices counts appointment_services rows per service, most booked first.
// A limit of zero or less returns every booked service.
func (r *reportRepository) PopularServices(ctx context.Context, exec SQLExecutor, limit int) ([]models.PopularService, error) {
	query := `SELECT s.id AS service_id, s.name, s.category,
	                 COUNT(aps.service_id) AS bookings, COALESCE(SUM(s.price), 0) AS revenue
	          FROM services s
	          JOIN appointment_services aps ON aps.service_id = s.id
	          GROUP BY s.id
	          ORDER BY bookings DESC, s.id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	services := []models.PopularService{}
	if err := exec.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, wrapDBError("popular services", err)
	}
	return services, nil
}

// FrequentCustomers ranks customers by completed visit count.
func (r *reportRepository) FrequentCustomers(ctx context.Context, exec SQLExecutor, limit int) ([]models.FrequentCustomer, error) {
	query := `SELECT c.id AS customer_id, c.name, c.phone,
	                 COUNT(a.id) AS visits, COALESCE(SUM(a.total_amount), 0) AS spent
	          FROM customers c
	          JOIN appointments a ON a.customer_id = c.id
	          WHERE a.status = $1
	          GROUP BY c.id
	          ORDER BY visits DESC, c.id
	          LIMIT $2`
	customers := []models.FrequentCustomer{}
	if err := exec.SelectContext(ctx, &customers, query, models.AppointmentStatusCompleted, limit); err != nil {
		return nil, wrapDBError("frequent customers", err)
	}
	return customers, nil
}
