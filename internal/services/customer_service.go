package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// --- Custom Service Errors for Customer ---
var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerEmailExists = errors.New("a customer with this email already exists")
)

// --- Customer DTOs ---

// CreateCustomerRequest accepts "" for email, dob and notes and stores them as NULL.
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"`
	DOB   *string `json:"dob"`
	Notes *string `json:"notes"`
}

// UpdateCustomerRequest leaves a field untouched when it is nil; "" clears an optional field.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	DOB   *string `json:"dob"`
	Notes *string `json:"notes"`
}

// --- CustomerService Interface ---
type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	GetCustomers(ctx context.Context, skip, limit int) ([]models.Customer, error)
	GetCustomerProfile(ctx context.Context, id int64) (*models.CustomerProfile, error)
	UpdateCustomer(ctx context.Context, id int64, req UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type customerService struct {
	store        TxRunner
	customerRepo repositories.CustomerRepository
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(store TxRunner, repo repositories.CustomerRepository) CustomerService {
	return &customerService{store: store, customerRepo: repo}
}

func validateCustomer(customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return fmt.Errorf("%w: phone cannot be empty", ErrValidation)
	}
	if customer.Email != nil && fieldValidator.Var(*customer.Email, "email") != nil {
		return fmt.Errorf("%w: email must be a valid email", ErrValidation)
	}
	if customer.DOB != nil && !IsValidDate(*customer.DOB) {
		return fmt.Errorf("%w: dob must be YYYY-MM-DD", ErrValidation)
	}
	return nil
}

func (s *customerService) mapError(op string, err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrCustomerEmailExists
	}
	return fmt.Errorf("failed to %s customer: %w", op, err)
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: utils.NullIfBlank(req.Email),
		DOB:   utils.NullIfBlank(req.DOB),
		Notes: utils.NullIfBlank(req.Notes),
	}
	if customer.Email != nil {
		email := utils.NormalizeEmail(*customer.Email)
		customer.Email = &email
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.customerRepo.CreateCustomer(ctx, tx, customer)
	})
	if err != nil {
		return nil, s.mapError("create", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer *models.Customer
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		customer, err = s.customerRepo.GetCustomerByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, s.mapError("get", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomers(ctx context.Context, skip, limit int) ([]models.Customer, error) {
	skip, limit = pageBounds(skip, limit)
	var customers []models.Customer
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		customers, err = s.customerRepo.GetCustomers(ctx, tx, skip, limit)
		return err
	})
	if err != nil {
		return nil, s.mapError("list", err)
	}
	return customers, nil
}

// GetCustomerProfile returns the customer with visit statistics and full history.
// Only completed appointments count as visits.
func (s *customerService) GetCustomerProfile(ctx context.Context, id int64) (*models.CustomerProfile, error) {
	profile := &models.CustomerProfile{}
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		customer, err := s.customerRepo.GetCustomerByID(ctx, tx, id)
		if err != nil {
			return err
		}
		history, err := s.customerRepo.GetVisitHistory(ctx, tx, id)
		if err != nil {
			return err
		}
		profile.Customer = customer
		profile.History = history
		profile.Stats = visitStats(history)
		return nil
	})
	if err != nil {
		return nil, s.mapError("get profile of", err)
	}
	return profile, nil
}

// visitStats expects history ordered newest first.
func visitStats(history []models.CustomerVisit) models.CustomerStats {
	var stats models.CustomerStats
	for i := range history {
		visit := history[i]
		if visit.Status != models.AppointmentStatusCompleted {
			continue
		}
		stats.TotalVisits++
		stats.TotalSpent += visit.TotalAmount
		if stats.LastVisit == nil {
			date := visit.Date
			stats.LastVisit = &date
		}
	}
	return stats
}

func (s *customerService) UpdateCustomer(ctx context.Context, id int64, req UpdateCustomerRequest) (*models.Customer, error) {
	var customer *models.Customer
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		customer, err = s.customerRepo.GetCustomerByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			customer.Name = strings.TrimSpace(*req.Name)
		}
		if req.Phone != nil {
			customer.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Email != nil {
			customer.Email = utils.NullIfBlank(req.Email)
			if customer.Email != nil {
				email := utils.NormalizeEmail(*customer.Email)
				customer.Email = &email
			}
		}
		if req.DOB != nil {
			customer.DOB = utils.NullIfBlank(req.DOB)
		}
		if req.Notes != nil {
			customer.Notes = utils.NullIfBlank(req.Notes)
		}
		if err := validateCustomer(customer); err != nil {
			return err
		}
		return s.customerRepo.UpdateCustomer(ctx, tx, customer)
	})
	if err != nil {
		return nil, s.mapError("update", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.customerRepo.DeleteCustomer(ctx, tx, id)
	})
	if err != nil {
		return s.mapError("delete", err)
	}
	utils.LogInfo("Customer deleted", map[string]interface{}{"customer_id": id})
	return nil
}
