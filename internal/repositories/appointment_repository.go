package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"salon_crm_backend/internal/models"

	"github.com/lib/pq"
)

const appointmentSelect = `SELECT a.id, a.customer_id, a.staff_id,
	       to_char(a.date, 'YYYY-MM-DD') AS date, to_char(a.time, 'HH24:MI:SS') AS time,
	       a.status, a.payment_status, a.total_amount,
	       u.name AS staff_name, u.email AS staff_email, u.phone AS staff_phone, u.role AS staff_role
	FROM appointments a
	LEFT JOIN users u ON u.id = a.staff_id`

// AppointmentRepository defines the interface for appointment-related database operations.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, exec SQLExecutor, appointment *models.Appointment) error
	GetAppointmentByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Appointment, error)
	GetAppointments(ctx context.Context, exec SQLExecutor, filters models.AppointmentFilters) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, exec SQLExecutor, appointment *models.Appointment) error
	DeleteAppointment(ctx context.Context, exec SQLExecutor, id int64) error
	ReplaceAppointmentServices(ctx context.Context, exec SQLExecutor, appointmentID int64, serviceIDs []int64) error
}

type appointmentRepository struct{}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository() AppointmentRepository {
	return &appointmentRepository{}
}

// appointmentRow carries the LEFT JOINed staff columns, which are NULL when unassigned.
type appointmentRow struct {
	models.Appointment
	StaffName  sql.NullString `db:"staff_name"`
	StaffEmail sql.NullString `db:"staff_email"`
	StaffPhone sql.NullString `db:"staff_phone"`
	StaffRole  sql.NullString `db:"staff_role"`
}

func (row appointmentRow) toModel() models.Appointment {
	appointment := row.Appointment
	appointment.Services = []models.Service{}
	if appointment.StaffID != nil && row.StaffName.Valid {
		staff := &models.StaffSummary{
			ID:    *appointment.StaffID,
			Name:  row.StaffName.String,
			Email: row.StaffEmail.String,
			Role:  row.StaffRole.String,
		}
		if row.StaffPhone.Valid {
			phone := row.StaffPhone.String
			staff.Phone = &phone
		}
		appointment.Staff = staff
	}
	return appointment
}

// CreateAppointment inserts the appointment row. Linked services are written separately.
func (r *appointmentRepository) CreateAppointment(ctx context.Context, exec SQLExecutor, appointment *models.Appointment) error {
	query := `INSERT INTO appointments (customer_id, staff_id, date, time, status, payment_status, total_amount)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := exec.QueryRowxContext(ctx, query,
		appointment.CustomerID, appointment.StaffID, appointment.Date, appointment.Time,
		appointment.Status, appointment.PaymentStatus, appointment.TotalAmount,
	).Scan(&appointment.ID)
	if err != nil {
		return wrapDBError("creating appointment", err)
	}
	return nil
}

// GetAppointmentByID returns the appointment with its staff summary; Services is left empty.
func (r *appointmentRepository) GetAppointmentByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Appointment, error) {
	var row appointmentRow
	if err := exec.GetContext(ctx, &row, appointmentSelect+` WHERE a.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError("getting appointment by id", err)
	}
	appointment := row.toModel()
	return &appointment, nil
}

// GetAppointments lists appointments matching the filters, newest first.
func (r *appointmentRepository) GetAppointments(ctx context.Context, exec SQLExecutor, filters models.AppointmentFilters) ([]models.Appointment, error) {
	var queryBuilder strings.Builder
	args := []interface{}{}
	argIdx := 1

	queryBuilder.WriteString(appointmentSelect)
	queryBuilder.WriteString(" WHERE 1=1")

	if filters.CustomerID != nil {
		queryBuilder.WriteString(" AND a.customer_id = $" + strconv.Itoa(argIdx))
		args = append(args, *filters.CustomerID)
		argIdx++
	}
	if filters.StaffID != nil {
		queryBuilder.WriteString(" AND a.staff_id = $" + strconv.Itoa(argIdx))
		args = append(args, *filters.StaffID)
		argIdx++
	}
	if filters.Status != nil {
		queryBuilder.WriteString(" AND a.status = $" + strconv.Itoa(argIdx))
		args = append(args, *filters.Status)
		argIdx++
	}
	if filters.DateFrom != nil {
		queryBuilder.WriteString(" AND a.date >= $" + strconv.Itoa(argIdx))
		args = append(args, *filters.DateFrom)
		argIdx++
	}
	if filters.DateTo != nil {
		queryBuilder.WriteString(" AND a.date <= $" + strconv.Itoa(argIdx))
		args = append(args, *filters.DateTo)
		argIdx++
	}

	queryBuilder.WriteString(" ORDER BY a.date DESC, a.time DESC, a.id DESC")
	queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(argIdx))
	args = append(args, filters.Skip)
	argIdx++
	if filters.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(argIdx))
		args = append(args, filters.Limit)
	}

	var rows []appointmentRow
	if err := exec.SelectContext(ctx, &rows, queryBuilder.String(), args...); err != nil {
		return nil, wrapDBError("listing appointments", err)
	}

	appointments := make([]models.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toModel())
	}
	return appointments, nil
}

// UpdateAppointment overwrites the appointment row in place.
func (r *appointmentRepository) UpdateAppointment(ctx context.Context, exec SQLExecutor, appointment *models.Appointment) error {
	query := `UPDATE appointments
	          SET customer_id = $1, staff_id = $2, date = $3, time = $4, status = $5, payment_status = $6, total_amount = $7
	          WHERE id = $8`
	res, err := exec.ExecContext(ctx, query,
		appointment.CustomerID, appointment.StaffID, appointment.Date, appointment.Time,
		appointment.Status, appointment.PaymentStatus, appointment.TotalAmount, appointment.ID)
	if err != nil {
		return wrapDBError("updating appointment", err)
	}
	return affectedOne("updating appointment", res)
}

// DeleteAppointment removes the appointment; its service links cascade.
func (r *appointmentRepository) DeleteAppointment(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return wrapDBError("deleting appointment", err)
	}
	return affectedOne("deleting appointment", res)
}

// ReplaceAppointmentServices replaces the whole membership set: every existing
// appointment_services row is deleted before the new set is inserted.
func (r *appointmentRepository) ReplaceAppointmentServices(ctx context.Context, exec SQLExecutor, appointmentID int64, serviceIDs []int64) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM appointment_services WHERE appointment_id = $1`, appointmentID); err != nil {
		return wrapDBError("clearing appointment services", err)
	}
	if len(serviceIDs) == 0 {
		return nil
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO appointment_services (appointment_id, service_id) SELECT $1, unnest($2::int[])`,
		appointmentID, pq.Array(serviceIDs))
	if err != nil {
		return wrapDBError("inserting appointment services", err)
	}
	return nil
}
