package repositories

import (
	"context"
	"database/sql"
	"errors"

	"salon_crm_backend/internal/models"

	"github.com/lib/pq"
)

const userColumns = `id, name, email, phone, password_hash, role, status`

// UserRepository defines the database operations for staff user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetUserByID(ctx context.Context, exec SQLExecutor, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error)
	GetUsers(ctx context.Context, exec SQLExecutor, skip, limit int) ([]models.User, error)
	UpdateUser(ctx context.Context, exec SQLExecutor, user *models.User) error
	DeleteUser(ctx context.Context, exec SQLExecutor, id int64) error
	ReplaceUserServices(ctx context.Context, exec SQLExecutor, userID int64, serviceIDs []int64) error
}

type userRepository struct{}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) CreateUser(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `INSERT INTO users (name, email, phone, password_hash, role, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := exec.QueryRowxContext(ctx, query,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.Status,
	).Scan(&user.ID)
	if err != nil {
		return wrapDBError("creating user", err)
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, exec SQLExecutor, op, where string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := exec.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE `+where, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(op, err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, exec SQLExecutor, id int64) (*models.User, error) {
	return r.getOne(ctx, exec, "getting user by id", "id = $1", id)
}

// GetUserByEmail matches the address case-insensitively.
func (r *userRepository) GetUserByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error) {
	return r.getOne(ctx, exec, "getting user by email", "LOWER(email) = LOWER($1)", email)
}

func (r *userRepository) GetUsers(ctx context.Context, exec SQLExecutor, skip, limit int) ([]models.User, error) {
	users := []models.User{}
	err := exec.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, wrapDBError("listing users", err)
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, exec SQLExecutor, user *models.User) error {
	query := `UPDATE users SET name = $1, email = $2, phone = $3, password_hash = $4, role = $5, status = $6
	          WHERE id = $7`
	res, err := exec.ExecContext(ctx, query,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.Status, user.ID)
	if err != nil {
		return wrapDBError("updating user", err)
	}
	return affectedOne("updating user", res)
}

func (r *userRepository) DeleteUser(ctx context.Context, exec SQLExecutor, id int64) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapDBError("deleting user", err)
	}
	return affectedOne("deleting user", res)
}

// ReplaceUserServices drops every staff_services row of the user and inserts the given set.
func (r *userRepository) ReplaceUserServices(ctx context.Context, exec SQLExecutor, userID int64, serviceIDs []int64) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM staff_services WHERE user_id = $1`, userID); err != nil {
		return wrapDBError("clearing staff services", err)
	}
	if len(serviceIDs) == 0 {
		return nil
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO staff_services (user_id, service_id) SELECT $1, unnest($2::int[])`,
		userID, pq.Array(serviceIDs))
	if err != nil {
		return wrapDBError("inserting staff services", err)
	}
	return nil
}
