package services

import (
	"math"

	"salon_crm_backend/internal/models"
)

// TotalInput is everything the total-amount policy looks at.
// Override is nil when the caller asked for the total to be computed.
type TotalInput struct {
	Services []models.Service
	Override *float64
	Status   string
}

// ServicesTotal sums the prices of the given services, rounded to cents.
func ServicesTotal(services []models.Service) float64 {
	var sum float64
	for _, s := range services {
		sum += s.Price
	}
	return math.Round(sum*100) / 100
}

// ResolveTotal decides the stored total_amount of an appointment.
// A completed appointment always carries the sum of its service prices.
// Otherwise an explicit override is stored as given and a missing one falls
// back to the sum.
func ResolveTotal(in TotalInput) float64 {
	if in.Status == models.AppointmentStatusCompleted || in.Override == nil {
		return ServicesTotal(in.Services)
	}
	return *in.Override
}

// overrideFromRequest treats a zero total the same as an absent one.
func overrideFromRequest(total *float64) *float64 {
	if total == nil || *total == 0 {
		return nil
	}
	v := *total
	return &v
}

// ResolvePaymentStatus picks the payment status to store. An explicit value
// wins, completing an appointment marks it paid, anything else keeps current.
func ResolvePaymentStatus(status string, requested *string, current string) string {
	if requested != nil && *requested != "" {
		return *requested
	}
	if status == models.AppointmentStatusCompleted {
		return models.PaymentStatusPaid
	}
	if current == "" {
		return models.PaymentStatusUnpaid
	}
	return current
}
