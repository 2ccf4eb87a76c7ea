package services

import (
	"context"
	"testing"

	"salon_crm_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (UserService, sqlmock.Sqlmock) {
	store, mock := newTestStore(t)
	return NewUserService(store, repositories.NewUserRepository(), repositories.NewServiceRepository(), bcrypt.MinCost), mock
}

func TestDeleteUser_CannotDeleteSelf(t *testing.T) {
	svc, mock := newTestUserService(t)

	err := svc.DeleteUser(context.Background(), 3, 3)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.DeleteUser(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_EmailTaken(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "Dana", "dana@example.com", nil, "x", "staff", "active"))
	mock.ExpectRollback()

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name:     "Dana Two",
		Email:    "Dana@Example.com",
		Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DefaultsAndQualifications(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).WithArgs("eve@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(`FROM services s WHERE s\.id = ANY`).WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(serviceCols).AddRow(1, "Haircut", "Hair", 100.0, 30))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Eve", "eve@example.com", nil, sqlmock.AnyArg(), "staff", "active").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`DELETE FROM staff_services`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO staff_services`).WithArgs(int64(5), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name:       " Eve ",
		Email:      "eve@example.com",
		Password:   "secret1",
		ServiceIDs: []int64{1, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, "staff", user.Role)
	assert.Equal(t, "active", user.Status)
	assert.Len(t, user.Services, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_ShortPassword(t *testing.T) {
	svc, mock := newTestUserService(t)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Name: "Eve", Email: "eve@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
