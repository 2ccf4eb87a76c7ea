package services

import (
	"context"
	"testing"
	"time"

	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (AuthService, *utils.TokenManager, sqlmock.Sqlmock) {
	store, mock := newTestStore(t)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthService(store, repositories.NewUserRepository(), tokens), tokens, mock
}

func userRowWithPassword(t *testing.T, password, status string) *sqlmock.Rows {
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows(userCols).AddRow(1, "Admin", "admin@example.com", nil, hash, "admin", status)
}

func TestLogin_Success(t *testing.T) {
	svc, tokens, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).WithArgs("admin@example.com").
		WillReturnRows(userRowWithPassword(t, "correct horse", "active"))
	mock.ExpectCommit()

	resp, err := svc.Login(context.Background(), LoginRequest{Username: " Admin@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := tokens.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).WithArgs("admin@example.com").
		WillReturnRows(userRowWithPassword(t, "correct horse", "active"))
	mock.ExpectCommit()

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectRollback()

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, _, mock := newTestAuthService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).WithArgs("admin@example.com").
		WillReturnRows(userRowWithPassword(t, "correct horse", "inactive"))
	mock.ExpectCommit()

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrUserInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc, _, mock := newTestAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "  ", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}
