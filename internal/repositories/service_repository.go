package repositories

import (
	"context"
	"database/sql"
	"errors"

	"salon_crm_backend/internal/models"

	"github.com/lib/pq"
)

const serviceColumns = `s.id, s.name, s.category, s.price, s.duration_minutes`

// ServiceRepository defines the database operations for the service catalogue
// and for the two service membership tables.
type ServiceRepository interface {
	CreateService(ctx context.Context, exec SQLExecutor, service *models.Service) error
	GetServiceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Service, error)
	GetServices(ctx context.Context, exec SQLExecutor) ([]models.Service, error)
	GetServicesByIDs(ctx context.Context, exec SQLExecutor, ids []int64) ([]models.Service, error)
	UpdateService(ctx context.Context, exec SQLExecutor, service *models.Service) error
	DeleteService(ctx context.Context, exec SQLExecutor, id int64) error
	GetServicesForAppointments(ctx context.Context, exec SQLExecutor, appointmentIDs []int64) (map[int64][]models.Service, error)
	GetServicesForUsers(ctx context.Context, exec SQLExecutor, userIDs []int64) (map[int64][]models.Service, error)
}

type serviceRepository struct{}

// NewServiceRepository creates a new instance of ServiceRepository.
func NewServiceRepository() ServiceRepository {
	return &serviceRepository{}
}

func (r *serviceRepository) CreateService(ctx context.Context, exec SQLExecutor, service *models.Service) error {
	query := `INSERT INTO services (name, category, price, duration_minutes)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := exec.QueryRowxContext(ctx, query, service.Name, service.Category, service.Price, service.Duration).Scan(&service.ID)
	if err != nil {
		return wrapDBError("creating service", err)
	}
	return nil
}

func (r *serviceRepository) GetServiceByID(ctx context.Context, exec SQLExecutor, id int64) (*models.Service, error) {
	var service models.Service
	err := exec.GetContext(ctx, &service, `SELECT `+serviceColumns+` FROM services s WHERE s.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError("getting service by id", err)
	}
	return &service, nil
}

func (r *serviceRepository) GetServices(ctx context.Context, exec SQLExecutor) ([]models.Service, error) {
	services := []models.Service{}
	if err := exec.SelectContext(ctx, &services, `SELECT `+serviceColumns+` FROM services s ORDER BY s.id`); err != nil {
		return nil, wrapDBError("listing services", err)
	}
	return services, nil
}

// GetServicesByIDs returns the services whose ids are in ids, ordered by id.
// Missing ids are simply absent from the result; callers compare lengths.
func (r *serviceRepository) GetServicesByIDs(ctx context.Context, exec SQLExecutor, ids []int64) ([]models.Service, error) {
	services := []models.Service{}
	if len(ids) == 0 {
		return services, nil
	}
	err := exec.SelectContext(ctx, &services,
		`SELECT `+serviceColumns+` FROM services s WHERE s.id = ANY($1) ORDER BY s.id`, pq.Array(ids))
	if err != nil {
		return nil, wrapDBError("getting services by ids", err)
	}
	return services, nil
}

func (r *serviceRepository) UpdateService(ctx context.Context, exec SQLExecutor, service *models.Service) error {
	query := `UPDATE services SET name = $1, category = $2, price = $3, duration_minutes = $4
	          WHERE id = $5`
	res, err := exec.ExecContext(ctx, query, service.Name, service.Category, service.Price, service.Duration, service.ID)
	if err != nil {
		return wrapDBError("updating service", err)
	}
	return affectedOne("updating service", res)
}

func (r *serviceRepository) DeleteService(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return wrapDBError("deleting service", err)
	}
	return affectedOne("deleting service", res)
}

type linkedServiceRow struct {
	OwnerID int64 `db:"owner_id"`
	models.Service
}

func groupByOwner(rows []linkedServiceRow) map[int64][]models.Service {
	grouped := make(map[int64][]models.Service)
	for _, row := range rows {
		grouped[row.OwnerID] = append(grouped[row.OwnerID], row.Service)
	}
	return grouped
}

// GetServicesForAppointments loads the linked services of several appointments in one query.
func (r *serviceRepository) GetServicesForAppointments(ctx context.Context, exec SQLExecutor, appointmentIDs []int64) (map[int64][]models.Service, error) {
	if len(appointmentIDs) == 0 {
		return map[int64][]models.Service{}, nil
	}
	query := `SELECT aps.appointment_id AS owner_id, ` + serviceColumns + `
	          FROM appointment_services aps
	          JOIN services s ON s.id = aps.service_id
	          WHERE aps.appointment_id = ANY($1)
	          ORDER BY aps.appointment_id, s.id`
	var rows []linkedServiceRow
	if err := exec.SelectContext(ctx, &rows, query, pq.Array(appointmentIDs)); err != nil {
		return nil, wrapDBError("getting appointment services", err)
	}
	return groupByOwner(rows), nil
}

// GetServicesForUsers loads the services each staff user is qualified to perform.
func (r *serviceRepository) GetServicesForUsers(ctx context.Context, exec SQLExecutor, userIDs []int64) (map[int64][]models.Service, error) {
	if len(userIDs) == 0 {
		return map[int64][]models.Service{}, nil
	}
	query := `SELECT ss.user_id AS owner_id, ` + serviceColumns + `
	          FROM staff_services ss
	          JOIN services s ON s.id = ss.service_id
	          WHERE ss.user_id = ANY($1)
	          ORDER BY ss.user_id, s.id`
	var rows []linkedServiceRow
	if err := exec.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, wrapDBError("getting staff services", err)
	}
	return groupByOwner(rows), nil
}
