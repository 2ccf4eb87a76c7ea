package services

import (
	"context"
	"errors"
	"fmt"

	"salon_crm_backend/internal/metrics"
	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// --- Custom Service Errors for Appointment ---
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStaffNotFound       = errors.New("staff member specified for appointment not found")
)

// --- Appointment DTOs ---

// AppointmentRequest is the full body of create and update calls.
// A zero or missing TotalAmount asks for the total to be computed.
type AppointmentRequest struct {
	CustomerID    int64    `json:"customer_id" binding:"required"`
	StaffID       *int64   `json:"staff_id"`
	Date          string   `json:"date" binding:"required,date"`
	Time          string   `json:"time" binding:"required,clock"`
	Status        string   `json:"status" binding:"omitempty,appointment_status"`
	PaymentStatus *string  `json:"payment_status"`
	TotalAmount   *float64 `json:"total_amount" binding:"omitempty,min=0"`
	ServiceIDs    []int64  `json:"service_ids" binding:"required,min=1"`
}

// StatusUpdateRequest is accepted from the JSON body or the query string.
// Blank payment_status and date are treated as absent; the service checks
// non-blank values.
type StatusUpdateRequest struct {
	Status        string  `json:"status" form:"status" binding:"required,appointment_status"`
	PaymentStatus *string `json:"payment_status" form:"payment_status"`
	Date          *string `json:"date" form:"date"`
}

// --- AppointmentService Interface ---
type AppointmentService interface {
	CreateAppointment(ctx context.Context, req AppointmentRequest) (*models.Appointment, error)
	GetAppointmentByID(ctx context.Context, id int64) (*models.Appointment, error)
	GetAppointments(ctx context.Context, filters models.AppointmentFilters) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, req AppointmentRequest) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id int64, req StatusUpdateRequest) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
}

type appointmentService struct {
	store           TxRunner
	appointmentRepo repositories.AppointmentRepository
	customerRepo    repositories.CustomerRepository
	userRepo        repositories.UserRepository
	serviceRepo     repositories.ServiceRepository
}

// NewAppointmentService creates a new instance of AppointmentService.
func NewAppointmentService(
	store TxRunner,
	ar repositories.AppointmentRepository,
	cr repositories.CustomerRepository,
	ur repositories.UserRepository,
	sr repositories.ServiceRepository,
) AppointmentService {
	return &appointmentService{
		store:           store,
		appointmentRepo: ar,
		customerRepo:    cr,
		userRepo:        ur,
		serviceRepo:     sr,
	}
}

// validateRequest checks the scalar fields and normalizes time to HH:MM:SS.
func (s *appointmentService) validateRequest(req *AppointmentRequest) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id is required", ErrValidation)
	}
	if !IsValidDate(req.Date) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	clock, ok := NormalizeClock(req.Time)
	if !ok {
		return fmt.Errorf("%w: time must be HH:MM or HH:MM:SS", ErrValidation)
	}
	req.Time = clock
	if req.Status != "" && !models.IsValidAppointmentStatus(req.Status) {
		return fmt.Errorf("%w: unknown status '%s'", ErrValidation, req.Status)
	}
	if req.PaymentStatus != nil && *req.PaymentStatus != "" && !models.IsValidPaymentStatus(*req.PaymentStatus) {
		return fmt.Errorf("%w: unknown payment_status '%s'", ErrValidation, *req.PaymentStatus)
	}
	if req.TotalAmount != nil && *req.TotalAmount < 0 {
		return fmt.Errorf("%w: total_amount must not be negative", ErrValidation)
	}
	req.ServiceIDs = dedupeIDs(req.ServiceIDs)
	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrValidation)
	}
	return nil
}

// resolveReferences checks customer and staff and loads the full service set.
func (s *appointmentService) resolveReferences(ctx context.Context, tx *sqlx.Tx, req AppointmentRequest) ([]models.Service, error) {
	if _, err := s.customerRepo.GetCustomerByID(ctx, tx, req.CustomerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrCustomerNotFound, req.CustomerID)
		}
		return nil, err
	}
	if req.StaffID != nil {
		if _, err := s.userRepo.GetUserByID(ctx, tx, *req.StaffID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %d", ErrStaffNotFound, *req.StaffID)
			}
			return nil, err
		}
	}
	return resolveServices(ctx, tx, s.serviceRepo, req.ServiceIDs)
}

// reload re-reads the stored row so the response carries the staff summary
// and the database's own date/time rendering.
func (s *appointmentService) reload(ctx context.Context, tx *sqlx.Tx, id int64, services []models.Service) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetAppointmentByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	appointment.Services = services
	return appointment, nil
}

func (s *appointmentService) CreateAppointment(ctx context.Context, req AppointmentRequest) (*models.Appointment, error) {
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.AppointmentStatusPending
	}

	var created *models.Appointment
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		services, err := s.resolveReferences(ctx, tx, req)
		if err != nil {
			return err
		}

		appointment := &models.Appointment{
			CustomerID:    req.CustomerID,
			StaffID:       req.StaffID,
			Date:          req.Date,
			Time:          req.Time,
			Status:        status,
			PaymentStatus: ResolvePaymentStatus(status, req.PaymentStatus, ""),
			TotalAmount: ResolveTotal(TotalInput{
				Services: services,
				Override: overrideFromRequest(req.TotalAmount),
				Status:   status,
			}),
		}
		if err := s.appointmentRepo.CreateAppointment(ctx, tx, appointment); err != nil {
			return err
		}
		if err := s.appointmentRepo.ReplaceAppointmentServices(ctx, tx, appointment.ID, req.ServiceIDs); err != nil {
			return err
		}
		created, err = s.reload(ctx, tx, appointment.ID, services)
		return err
	})
	if err != nil {
		return nil, s.mapWriteError("create", err)
	}

	metrics.RecordAppointmentCreated(created.Status)
	utils.LogInfo("Appointment created", map[string]interface{}{
		"appointment_id": created.ID,
		"customer_id":    created.CustomerID,
		"total_amount":   created.TotalAmount,
	})
	return created, nil
}

func (s *appointmentService) GetAppointmentByID(ctx context.Context, id int64) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		appointment, err = s.appointmentRepo.GetAppointmentByID(ctx, tx, id)
		if err != nil {
			return err
		}
		linked, err := s.serviceRepo.GetServicesForAppointments(ctx, tx, []int64{id})
		if err != nil {
			return err
		}
		if svcs, ok := linked[id]; ok {
			appointment.Services = svcs
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *appointmentService) GetAppointments(ctx context.Context, filters models.AppointmentFilters) ([]models.Appointment, error) {
	filters.Status = utils.NullIfBlank(filters.Status)
	filters.DateFrom = utils.NullIfBlank(filters.DateFrom)
	filters.DateTo = utils.NullIfBlank(filters.DateTo)
	if filters.Status != nil && !models.IsValidAppointmentStatus(*filters.Status) {
		return nil, fmt.Errorf("%w: unknown status '%s'", ErrValidation, *filters.Status)
	}
	for _, d := range []*string{filters.DateFrom, filters.DateTo} {
		if d != nil && !IsValidDate(*d) {
			return nil, fmt.Errorf("%w: date filters must be YYYY-MM-DD", ErrValidation)
		}
	}
	filters.Skip, filters.Limit = pageBounds(filters.Skip, filters.Limit)

	var appointments []models.Appointment
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		appointments, err = s.appointmentRepo.GetAppointments(ctx, tx, filters)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(appointments))
		for _, a := range appointments {
			ids = append(ids, a.ID)
		}
		linked, err := s.serviceRepo.GetServicesForAppointments(ctx, tx, ids)
		if err != nil {
			return err
		}
		for i := range appointments {
			if svcs, ok := linked[appointments[i].ID]; ok {
				appointments[i].Services = svcs
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateAppointment overwrites the appointment and replaces its whole service set.
func (s *appointmentService) UpdateAppointment(ctx context.Context, id int64, req AppointmentRequest) (*models.Appointment, error) {
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	var (
		updated    *models.Appointment
		prevStatus string
	)
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		existing, err := s.appointmentRepo.GetAppointmentByID(ctx, tx, id)
		if err != nil {
			return err
		}
		prevStatus = existing.Status

		services, err := s.resolveReferences(ctx, tx, req)
		if err != nil {
			return err
		}

		status := req.Status
		if status == "" {
			status = existing.Status
		}
		existing.CustomerID = req.CustomerID
		existing.StaffID = req.StaffID
		existing.Date = req.Date
		existing.Time = req.Time
		existing.Status = status
		existing.PaymentStatus = ResolvePaymentStatus(status, req.PaymentStatus, existing.PaymentStatus)
		existing.TotalAmount = ResolveTotal(TotalInput{
			Services: services,
			Override: overrideFromRequest(req.TotalAmount),
			Status:   status,
		})

		if err := s.appointmentRepo.UpdateAppointment(ctx, tx, existing); err != nil {
			return err
		}
		if err := s.appointmentRepo.ReplaceAppointmentServices(ctx, tx, id, req.ServiceIDs); err != nil {
			return err
		}
		updated, err = s.reload(ctx, tx, id, services)
		return err
	})
	if err != nil {
		return nil, s.mapWriteError("update", err)
	}

	if prevStatus != updated.Status {
		metrics.RecordStatusTransition(prevStatus, updated.Status)
	}
	return updated, nil
}

// UpdateAppointmentStatus moves an appointment to a new status, optionally
// rescheduling its date. Completing recomputes the total from the services
// currently linked to the appointment.
func (s *appointmentService) UpdateAppointmentStatus(ctx context.Context, id int64, req StatusUpdateRequest) (*models.Appointment, error) {
	if !models.IsValidAppointmentStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status '%s'", ErrValidation, req.Status)
	}
	if req.PaymentStatus != nil && *req.PaymentStatus != "" && !models.IsValidPaymentStatus(*req.PaymentStatus) {
		return nil, fmt.Errorf("%w: unknown payment_status '%s'", ErrValidation, *req.PaymentStatus)
	}
	if req.Date != nil && *req.Date != "" && !IsValidDate(*req.Date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	var (
		updated    *models.Appointment
		prevStatus string
	)
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		appointment, err := s.appointmentRepo.GetAppointmentByID(ctx, tx, id)
		if err != nil {
			return err
		}
		prevStatus = appointment.Status

		linked, err := s.serviceRepo.GetServicesForAppointments(ctx, tx, []int64{id})
		if err != nil {
			return err
		}
		services := linked[id]
		if services == nil {
			services = []models.Service{}
		}

		appointment.Status = req.Status
		if req.Date != nil && *req.Date != "" {
			appointment.Date = *req.Date
		}
		if req.Status == models.AppointmentStatusCompleted {
			appointment.TotalAmount = ResolveTotal(TotalInput{Services: services, Status: req.Status})
		}
		appointment.PaymentStatus = ResolvePaymentStatus(req.Status, req.PaymentStatus, appointment.PaymentStatus)

		if err := s.appointmentRepo.UpdateAppointment(ctx, tx, appointment); err != nil {
			return err
		}
		updated, err = s.reload(ctx, tx, id, services)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	metrics.RecordStatusTransition(prevStatus, updated.Status)
	utils.LogInfo("Appointment status updated", map[string]interface{}{
		"appointment_id": id,
		"from":           prevStatus,
		"to":             updated.Status,
		"total_amount":   updated.TotalAmount,
	})
	return updated, nil
}

func (s *appointmentService) DeleteAppointment(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.appointmentRepo.DeleteAppointment(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

// mapWriteError keeps domain sentinels visible to handlers and wraps the rest.
func (s *appointmentService) mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrStaffNotFound),
		errors.Is(err, ErrInvalidServiceReference):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return ErrAppointmentNotFound
	case errors.Is(err, repositories.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrInvalidServiceReference, err)
	}
	return fmt.Errorf("failed to %s appointment: %w", op, err)
}
