package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueQueriesOnlyCountCompleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository()
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM appointments WHERE status = \$1 AND date = \$2`).
		WithArgs("completed", "2024-05-01").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(250.0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM appointments WHERE status = \$1$`).
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1250.5))

	today, err := repo.RevenueOn(ctx, db, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 250.0, today)

	total, err := repo.TotalRevenue(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1250.5, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountAppointmentsByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository()

	mock.ExpectQuery(`FROM appointments WHERE status = \$1`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountAppointmentsByStatus(context.Background(), db, "pending")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyRevenueSince(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository()

	mock.ExpectQuery(`GROUP BY a\.date`).
		WithArgs("completed", "2024-04-24").
		WillReturnRows(sqlmock.NewRows([]string{"date", "revenue"}).
			AddRow("2024-04-25", 100.0).
			AddRow("2024-04-30", 250.0))

	points, err := repo.DailyRevenueSince(context.Background(), db, "2024-04-24")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-04-25", points[0].Date)
	assert.Equal(t, 250.0, points[1].Revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPopularServices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository()

	mock.ExpectQuery(`ORDER BY bookings DESC, s\.id LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"service_id", "name", "category", "bookings", "revenue"}).
			AddRow(1, "Mens Haircut", "Haircut", 12, 300.0).
			AddRow(4, "Manicure", "Nails", 7, 140.0))

	popular, err := repo.PopularServices(context.Background(), db, 5)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, int64(1), popular[0].ServiceID)
	assert.Equal(t, 12, popular[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFrequentCustomers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository()

	mock.ExpectQuery(`ORDER BY visits DESC`).
		WithArgs("completed", 10).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "name", "phone", "visits", "spent"}).
			AddRow(7, "Alice", "555-0100", 3, 420.0))

	customers, err := repo.FrequentCustomers(context.Background(), db, 10)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, 3, customers[0].Visits)
	assert.Equal(t, 420.0, customers[0].Spent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
