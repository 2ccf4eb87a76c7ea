package models

// Appointment statuses.
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// IsValidAppointmentStatus checks if the provided status string is a valid appointment status.
func IsValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	default:
		return false
	}
}

// IsValidPaymentStatus checks if the provided status string is a valid payment status.
func IsValidPaymentStatus(status string) bool {
	return status == PaymentStatusUnpaid || status == PaymentStatusPaid
}

// Appointment is a booking of one or more services for a customer.
// Date is YYYY-MM-DD and Time is HH:MM:SS.
type Appointment struct {
	ID            int64         `json:"id" db:"id"`
	CustomerID    int64         `json:"customer_id" db:"customer_id"`
	StaffID       *int64        `json:"staff_id" db:"staff_id"`
	Date          string        `json:"date" db:"date"`
	Time          string        `json:"time" db:"time"`
	Status        string        `json:"status" db:"status"`
	PaymentStatus string        `json:"payment_status" db:"payment_status"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Services      []Service     `json:"services" db:"-"`
	Staff         *StaffSummary `json:"staff" db:"-"`
}

// AppointmentFilters defines the available filters for listing appointments.
type AppointmentFilters struct {
	CustomerID *int64  `form:"customer_id"`
	StaffID    *int64  `form:"staff_id"`
	Status     *string `form:"status"`
	DateFrom   *string `form:"date_from"`
	DateTo     *string `form:"date_to"`
	Skip       int     `form:"skip" binding:"min=0"`
	Limit      int     `form:"limit" binding:"min=0,max=500"`
}
