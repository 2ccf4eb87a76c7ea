package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"

	"github.com/jmoiron/sqlx"
)

// --- Custom Service Errors for the catalogue ---
var (
	ErrServiceNotFound         = errors.New("service not found")
	ErrInvalidServiceReference = errors.New("one or more service ids do not exist")
	ErrServiceInUse            = errors.New("service is still referenced and cannot be deleted")
)

// --- Catalogue DTOs ---
type CreateServiceRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Duration int     `json:"duration" binding:"required,gt=0"`
}

type UpdateServiceRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price" binding:"omitempty,min=0"`
	Duration *int     `json:"duration" binding:"omitempty,gt=0"`
}

// --- CatalogService Interface ---
type CatalogService interface {
	CreateService(ctx context.Context, req CreateServiceRequest) (*models.Service, error)
	GetServiceByID(ctx context.Context, id int64) (*models.Service, error)
	GetServices(ctx context.Context) ([]models.Service, error)
	UpdateService(ctx context.Context, id int64, req UpdateServiceRequest) (*models.Service, error)
	DeleteService(ctx context.Context, id int64) error
}

type catalogService struct {
	store       TxRunner
	serviceRepo repositories.ServiceRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(store TxRunner, serviceRepo repositories.ServiceRepository) CatalogService {
	return &catalogService{store: store, serviceRepo: serviceRepo}
}

func validateService(service *models.Service) error {
	if strings.TrimSpace(service.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(service.Category) == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrValidation)
	}
	if service.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if service.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	return nil
}

func (s *catalogService) CreateService(ctx context.Context, req CreateServiceRequest) (*models.Service, error) {
	service := &models.Service{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Duration: req.Duration,
	}
	if err := validateService(service); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.serviceRepo.CreateService(ctx, tx, service)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return service, nil
}

func (s *catalogService) GetServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	var service *models.Service
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		service, err = s.serviceRepo.GetServiceByID(ctx, tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

func (s *catalogService) GetServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		services, err = s.serviceRepo.GetServices(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id int64, req UpdateServiceRequest) (*models.Service, error) {
	var service *models.Service
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		service, err = s.serviceRepo.GetServiceByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			service.Name = strings.TrimSpace(*req.Name)
		}
		if req.Category != nil {
			service.Category = strings.TrimSpace(*req.Category)
		}
		if req.Price != nil {
			service.Price = *req.Price
		}
		if req.Duration != nil {
			service.Duration = *req.Duration
		}
		if err := validateService(service); err != nil {
			return err
		}
		return s.serviceRepo.UpdateService(ctx, tx, service)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrServiceNotFound
		case errors.Is(err, ErrValidation):
			return nil, err
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return service, nil
}

func (s *catalogService) DeleteService(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.serviceRepo.DeleteService(ctx, tx, id)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrServiceNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrServiceInUse
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

// resolveServices loads every requested service or fails the whole set.
func resolveServices(ctx context.Context, exec repositories.SQLExecutor, repo repositories.ServiceRepository, ids []int64) ([]models.Service, error) {
	if len(ids) == 0 {
		return []models.Service{}, nil
	}
	found, err := repo.GetServicesByIDs(ctx, exec, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}

	resolved := make([]models.Service, 0, len(ids))
	var missing []string
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			missing = append(missing, fmt.Sprint(id))
			continue
		}
		resolved = append(resolved, svc)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidServiceReference, strings.Join(missing, ", "))
	}
	return resolved, nil
}
