package models

import "time"

// Customer is a salon client. Email is unique when present.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email" db:"email"`
	DOB       *string   `json:"dob" db:"dob"` // YYYY-MM-DD
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CustomerStats summarises a customer's completed visits.
type CustomerStats struct {
	TotalVisits int     `json:"total_visits" db:"total_visits"`
	TotalSpent  float64 `json:"total_spent" db:"total_spent"`
	LastVisit   *string `json:"last_visit" db:"last_visit"`
}

// CustomerVisit is one entry of a customer's appointment history.
type CustomerVisit struct {
	ID            int64    `json:"id"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Status        string   `json:"status"`
	PaymentStatus string   `json:"payment_status"`
	TotalAmount   float64  `json:"total_amount"`
	Services      []string `json:"services"`
	StaffName     string   `json:"staff_name"`
}

// CustomerProfile is the customer detail view with visit statistics and history.
type CustomerProfile struct {
	Customer *Customer      `json:"customer"`
	Stats    CustomerStats   `json:"stats"`
	History  []CustomerVisit `json:"history"`
}
