package models

// Role labels stored on users.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User account statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// IsValidRole checks if the provided role is a known role label.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// IsValidUserStatus checks if the provided status is a known user status.
func IsValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusInactive
}

// User is a staff member who can log in. Services lists what they are qualified to perform.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	Services     []Service `json:"services" db:"-"`
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// StaffSummary is the staff projection embedded in appointment responses.
type StaffSummary struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Email string  `json:"email" db:"email"`
	Phone *string `json:"phone" db:"phone"`
	Role  string  `json:"role" db:"role"`
}

// TokenResponse is returned by the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
