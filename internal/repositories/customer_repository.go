package repositories

import (
	"context"
	"database/sql"
	"errors"

	"salon_crm_backend/internal/models"

	"github.com/lib/pq"
)

const customerColumns = `id, name, phone, email, to_char(dob, 'YYYY-MM-DD') AS dob, notes, created_at`

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, exec SQLExecutor, customer *models.Customer) error
	GetCustomerByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Customer, error)
	GetCustomers(ctx context.Context, exec SQLExecutor, skip, limit int) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, exec SQLExecutor, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, exec SQLExecutor, id int64) error
	GetVisitHistory(ctx context.Context, exec SQLExecutor, customerID int64) ([]models.CustomerVisit, error)
}

type customerRepository struct{}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository() CustomerRepository {
	return &customerRepository{}
}

// CreateCustomer inserts a new customer and fills in the generated id and created_at.
func (r *customerRepository) CreateCustomer(ctx context.Context, exec SQLExecutor, customer *models.Customer) error {
	query := `INSERT INTO customers (name, phone, email, dob, notes)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	err := exec.QueryRowxContext(ctx, query,
		customer.Name, customer.Phone, customer.Email, customer.DOB, customer.Notes,
	).Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return wrapDBError("creating customer", err)
	}
	return nil
}

// GetCustomerByID retrieves a customer by id.
func (r *customerRepository) GetCustomerByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := exec.GetContext(ctx, &customer, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError("getting customer by id", err)
	}
	return &customer, nil
}

// GetCustomers retrieves a page of customers ordered by id.
func (r *customerRepository) GetCustomers(ctx context.Context, exec SQLExecutor, skip, limit int) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := exec.SelectContext(ctx, &customers,
		`SELECT `+customerColumns+` FROM customers ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, wrapDBError("listing customers", err)
	}
	return customers, nil
}

// UpdateCustomer overwrites every mutable column of the customer.
func (r *customerRepository) UpdateCustomer(ctx context.Context, exec SQLExecutor, customer *models.Customer) error {
	query := `UPDATE customers SET name = $1, phone = $2, email = $3, dob = $4, notes = $5
	          WHERE id = $6`
	res, err := exec.ExecContext(ctx, query,
		customer.Name, customer.Phone, customer.Email, customer.DOB, customer.Notes, customer.ID)
	if err != nil {
		return wrapDBError("updating customer", err)
	}
	return affectedOne("updating customer", res)
}

// DeleteCustomer removes a customer; their appointments are removed by cascade.
func (r *customerRepository) DeleteCustomer(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return wrapDBError("deleting customer", err)
	}
	return affectedOne("deleting customer", res)
}

type visitRow struct {
	ID            int64          `db:"id"`
	Date          string         `db:"date"`
	Time          string         `db:"time"`
	Status        string         `db:"status"`
	PaymentStatus string         `db:"payment_status"`
	TotalAmount   float64        `db:"total_amount"`
	StaffName     sql.NullString `db:"staff_name"`
	Services      pq.StringArray `db:"services"`
}

// GetVisitHistory returns every appointment of the customer, newest first,
// with the names of the linked services and the assigned staff member.
func (r *customerRepository) GetVisitHistory(ctx context.Context, exec SQLExecutor, customerID int64) ([]models.CustomerVisit, error) {
	query := `SELECT a.id, to_char(a.date, 'YYYY-MM-DD') AS date, to_char(a.time, 'HH24:MI:SS') AS time,
	                 a.status, a.payment_status, a.total_amount, u.name AS staff_name,
	                 COALESCE(array_agg(s.name ORDER BY s.name) FILTER (WHERE s.id IS NOT NULL), '{}') AS services
	          FROM appointments a
	          LEFT JOIN users u ON u.id = a.staff_id
	          LEFT JOIN appointment_services aps ON aps.appointment_id = a.id
	          LEFT JOIN services s ON s.id = aps.service_id
	          WHERE a.customer_id = $1
	          GROUP BY a.id, u.name
	          ORDER BY a.date DESC, a.time DESC, a.id DESC`

	var rows []visitRow
	if err := exec.SelectContext(ctx, &rows, query, customerID); err != nil {
		return nil, wrapDBError("getting visit history", err)
	}

	visits := make([]models.CustomerVisit, 0, len(rows))
	for _, row := range rows {
		staffName := "Not Assigned"
		if row.StaffName.Valid {
			staffName = row.StaffName.String
		}
		services := []string(row.Services)
		if services == nil {
			services = []string{}
		}
		visits = append(visits, models.CustomerVisit{
			ID:            row.ID,
			Date:          row.Date,
			Time:          row.Time,
			Status:        row.Status,
			PaymentStatus: row.PaymentStatus,
			TotalAmount:   row.TotalAmount,
			Services:      services,
			StaffName:     staffName,
		})
	}
	return visits, nil
}
