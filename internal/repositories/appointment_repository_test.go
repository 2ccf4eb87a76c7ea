package repositories

import (
	"context"
	"errors"
	"testing"

	"salon_crm_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		appointment := &models.Appointment{
			CustomerID:    7,
			Date:          "2024-05-01",
			Time:          "10:00:00",
			Status:        models.AppointmentStatusPending,
			PaymentStatus: models.PaymentStatusUnpaid,
			TotalAmount:   250,
		}

		mock.ExpectQuery(`INSERT INTO appointments`).
			WithArgs(int64(7), nil, "2024-05-01", "10:00:00", "pending", "unpaid", 250.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		err := repo.CreateAppointment(ctx, db, appointment)
		require.NoError(t, err)
		assert.Equal(t, int64(11), appointment.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Foreign Key Violation", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO appointments`).
			WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

		err := repo.CreateAppointment(ctx, db, &models.Appointment{CustomerID: 99})
		assert.ErrorIs(t, err, ErrForeignKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetAppointmentByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()
	ctx := context.Background()

	t.Run("With Staff", func(t *testing.T) {
		mock.ExpectQuery(`FROM appointments a`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(appointmentCols).
				AddRow(1, 7, 3, "2024-05-01", "10:00:00", "pending", "unpaid", 250.0, "Jane", "jane@example.com", nil, "staff"))

		appointment, err := repo.GetAppointmentByID(ctx, db, 1)
		require.NoError(t, err)
		require.NotNil(t, appointment.StaffID)
		assert.Equal(t, int64(3), *appointment.StaffID)
		require.NotNil(t, appointment.Staff)
		assert.Equal(t, "Jane", appointment.Staff.Name)
		assert.Nil(t, appointment.Staff.Phone)
		assert.Equal(t, 250.0, appointment.TotalAmount)
		assert.NotNil(t, appointment.Services)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unassigned", func(t *testing.T) {
		mock.ExpectQuery(`FROM appointments a`).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(appointmentCols).
				AddRow(2, 7, nil, "2024-05-02", "11:30:00", "completed", "paid", 100.0, nil, nil, nil, nil))

		appointment, err := repo.GetAppointmentByID(ctx, db, 2)
		require.NoError(t, err)
		assert.Nil(t, appointment.StaffID)
		assert.Nil(t, appointment.Staff)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`FROM appointments a`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(appointmentCols))

		_, err := repo.GetAppointmentByID(ctx, db, 404)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetAppointments_Filters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	status := models.AppointmentStatusCompleted
	customerID := int64(7)
	filters := models.AppointmentFilters{CustomerID: &customerID, Status: &status, Skip: 0, Limit: 50}

	mock.ExpectQuery(`a\.customer_id = \$1 AND a\.status = \$2 ORDER BY a\.date DESC, a\.time DESC, a\.id DESC OFFSET \$3 LIMIT \$4`).
		WithArgs(int64(7), "completed", 0, 50).
		WillReturnRows(sqlmock.NewRows(appointmentCols).
			AddRow(5, 7, nil, "2024-05-03", "09:00:00", "completed", "paid", 45.0, nil, nil, nil, nil).
			AddRow(4, 7, nil, "2024-05-01", "09:00:00", "completed", "paid", 25.0, nil, nil, nil, nil))

	appointments, err := repo.GetAppointments(context.Background(), db, filters)
	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, int64(5), appointments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectExec(`UPDATE appointments`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAppointment(context.Background(), db, &models.Appointment{ID: 9})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAppointment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM appointments`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteAppointment(ctx, db, 3))

	mock.ExpectExec(`DELETE FROM appointments`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteAppointment(ctx, db, 4), ErrNotFound)

	mock.ExpectExec(`DELETE FROM appointments`).WithArgs(int64(5)).WillReturnError(errors.New("conn closed"))
	assert.ErrorIs(t, repo.DeleteAppointment(ctx, db, 5), ErrDatabaseError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAppointmentServices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()
	ctx := context.Background()

	t.Run("Replaces Set", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM appointment_services`).
			WithArgs(int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`INSERT INTO appointment_services`).
			WithArgs(int64(11), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))

		require.NoError(t, repo.ReplaceAppointmentServices(ctx, db, 11, []int64{1, 2}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Set Only Clears", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM appointment_services`).
			WithArgs(int64(12)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ReplaceAppointmentServices(ctx, db, 12, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
