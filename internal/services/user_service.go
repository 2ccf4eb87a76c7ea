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

// --- Custom Service Errors for User ---
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrCannotDeleteSelf = errors.New("you cannot delete your own account")
)

// --- User DTOs ---
type CreateUserRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone"`
	Password   string  `json:"password" binding:"required,min=6"`
	Role       string  `json:"role" binding:"omitempty,role"`
	Status     string  `json:"status" binding:"omitempty,user_status"`
	ServiceIDs []int64 `json:"service_ids"`
}

// UpdateUserRequest leaves a field untouched when it is nil.
// A non-nil ServiceIDs replaces the user's whole qualification set.
type UpdateUserRequest struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email" binding:"omitempty,email"`
	Phone      *string  `json:"phone"`
	Password   *string  `json:"password" binding:"omitempty,min=6"`
	Role       *string  `json:"role" binding:"omitempty,role"`
	Status     *string  `json:"status" binding:"omitempty,user_status"`
	ServiceIDs *[]int64 `json:"service_ids"`
}

// --- UserService Interface ---
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, id int64) error
}

type userService struct {
	store       TxRunner
	userRepo    repositories.UserRepository
	serviceRepo repositories.ServiceRepository
	bcryptCost  int
}

// NewUserService creates a new instance of UserService.
func NewUserService(store TxRunner, ur repositories.UserRepository, sr repositories.ServiceRepository, bcryptCost int) UserService {
	return &userService{store: store, userRepo: ur, serviceRepo: sr, bcryptCost: bcryptCost}
}

func validateUser(user *models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if user.Email == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}
	if !models.IsValidRole(user.Role) {
		return fmt.Errorf("%w: unknown role '%s'", ErrValidation, user.Role)
	}
	if !models.IsValidUserStatus(user.Status) {
		return fmt.Errorf("%w: unknown status '%s'", ErrValidation, user.Status)
	}
	return nil
}

func (s *userService) mapError(op string, err error) error {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidServiceReference), errors.Is(err, ErrEmailExists):
		return err
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrEmailExists
	}
	return fmt.Errorf("failed to %s user: %w", op, err)
}

// ensureEmailFree rejects an address already held by a different account.
func (s *userService) ensureEmailFree(ctx context.Context, tx *sqlx.Tx, email string, selfID int64) error {
	other, err := s.userRepo.GetUserByEmail(ctx, tx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if other.ID != selfID {
		return ErrEmailExists
	}
	return nil
}

// attachServices loads and sets the qualification list of each user.
func (s *userService) attachServices(ctx context.Context, tx *sqlx.Tx, users []models.User) error {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	linked, err := s.serviceRepo.GetServicesForUsers(ctx, tx, ids)
	if err != nil {
		return err
	}
	for i := range users {
		users[i].Services = linked[users[i].ID]
		if users[i].Services == nil {
			users[i].Services = []models.Service{}
		}
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Name:   strings.TrimSpace(req.Name),
		Email:  utils.NormalizeEmail(req.Email),
		Phone:  utils.NullIfBlank(req.Phone),
		Role:   req.Role,
		Status: req.Status,
	}
	if user.Role == "" {
		user.Role = models.RoleStaff
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	serviceIDs := dedupeIDs(req.ServiceIDs)

	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.ensureEmailFree(ctx, tx, user.Email, 0); err != nil {
			return err
		}
		services, err := resolveServices(ctx, tx, s.serviceRepo, serviceIDs)
		if err != nil {
			return err
		}
		if err := s.userRepo.CreateUser(ctx, tx, user); err != nil {
			return err
		}
		if err := s.userRepo.ReplaceUserServices(ctx, tx, user.ID, serviceIDs); err != nil {
			return err
		}
		user.Services = services
		return nil
	})
	if err != nil {
		return nil, s.mapError("create", err)
	}

	utils.LogInfo("User created", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		found, err := s.userRepo.GetUserByID(ctx, tx, id)
		if err != nil {
			return err
		}
		users := []models.User{*found}
		if err := s.attachServices(ctx, tx, users); err != nil {
			return err
		}
		user = &users[0]
		return nil
	})
	if err != nil {
		return nil, s.mapError("get", err)
	}
	return user, nil
}

func (s *userService) GetUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	skip, limit = pageBounds(skip, limit)
	var users []models.User
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		users, err = s.userRepo.GetUsers(ctx, tx, skip, limit)
		if err != nil {
			return err
		}
		return s.attachServices(ctx, tx, users)
	})
	if err != nil {
		return nil, s.mapError("list", err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	var newHash string
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
		}
		hash, err := utils.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		newHash = hash
	}

	var user *models.User
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.userRepo.GetUserByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			user.Email = utils.NormalizeEmail(*req.Email)
			if err := s.ensureEmailFree(ctx, tx, user.Email, id); err != nil {
				return err
			}
		}
		if req.Phone != nil {
			user.Phone = utils.NullIfBlank(req.Phone)
		}
		if req.Role != nil {
			user.Role = *req.Role
		}
		if req.Status != nil {
			user.Status = *req.Status
		}
		if newHash != "" {
			user.PasswordHash = newHash
		}
		if err := validateUser(user); err != nil {
			return err
		}
		if err := s.userRepo.UpdateUser(ctx, tx, user); err != nil {
			return err
		}

		if req.ServiceIDs != nil {
			serviceIDs := dedupeIDs(*req.ServiceIDs)
			services, err := resolveServices(ctx, tx, s.serviceRepo, serviceIDs)
			if err != nil {
				return err
			}
			if err := s.userRepo.ReplaceUserServices(ctx, tx, id, serviceIDs); err != nil {
				return err
			}
			user.Services = services
			return nil
		}
		users := []models.User{*user}
		if err := s.attachServices(ctx, tx, users); err != nil {
			return err
		}
		user = &users[0]
		return nil
	})
	if err != nil {
		return nil, s.mapError("update", err)
	}
	return user, nil
}

// DeleteUser removes a user account. actorID is the caller, who may not delete themselves.
func (s *userService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.userRepo.DeleteUser(ctx, tx, id)
	})
	if err != nil {
		return s.mapError("delete", err)
	}
	utils.LogInfo("User deleted", map[string]interface{}{"user_id": id, "deleted_by": actorID})
	return nil
}
