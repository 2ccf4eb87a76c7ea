package services

import (
	"context"
	"errors"
	"fmt"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserInactive       = errors.New("user account is inactive")
)

// LoginRequest DTO. Username carries the email address, matching the form
// field name used by OAuth2 password clients.
type LoginRequest struct {
	Username string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*models.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	store    TxRunner
	userRepo repositories.UserRepository
	tokens   *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(store TxRunner, userRepo repositories.UserRepository, tokens *utils.TokenManager) AuthService {
	return &authService{store: store, userRepo: userRepo, tokens: tokens}
}

// Login verifies the credentials and issues an access token.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*models.TokenResponse, error) {
	email := utils.NormalizeEmail(req.Username)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var user *models.User
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.userRepo.GetUserByEmail(ctx, tx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// GetCurrentUser retrieves the authenticated user's record.
func (s *authService) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	var user *models.User
	err := s.store.WithReadTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.userRepo.GetUserByID(ctx, tx, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve current user: %w", err)
	}
	return user, nil
}
