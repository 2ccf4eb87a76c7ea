package services

import (
	"testing"
	"time"

	"salon_crm_backend/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*database.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewStore(sqlx.NewDb(db, "postgres")), mock
}

var (
	customerCols    = []string{"id", "name", "phone", "email", "dob", "notes", "created_at"}
	serviceCols     = []string{"id", "name", "category", "price", "duration_minutes"}
	linkedCols      = []string{"owner_id", "id", "name", "category", "price", "duration_minutes"}
	userCols        = []string{"id", "name", "email", "phone", "password_hash", "role", "status"}
	appointmentCols = []string{
		"id", "customer_id", "staff_id", "date", "time", "status", "payment_status", "total_amount",
		"staff_name", "staff_email", "staff_phone", "staff_role",
	}
)

func customerRow(id int64) *sqlmock.Rows {
	return sqlmock.NewRows(customerCols).AddRow(id, "Alice", "555-0100", nil, nil, nil, time.Now())
}
