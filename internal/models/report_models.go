package models

// RevenuePoint is revenue of completed appointments on one calendar date.
type RevenuePoint struct {
	Date    string  `json:"date" db:"date"`
	Revenue float64 `json:"revenue" db:"revenue"`
}

// MonthlyRevenuePoint is revenue of completed appointments in one YYYY-MM month.
type MonthlyRevenuePoint struct {
	Month   string  `json:"month" db:"month"`
	Revenue float64 `json:"revenue" db:"revenue"`
}

// PopularService counts how often a service was booked.
type PopularService struct {
	ServiceID int64   `json:"id" db:"service_id"`
	Name      string  `json:"name" db:"name"`
	Category  string  `json:"category" db:"category"`
	Count     int     `json:"count" db:"bookings"`
	Revenue   float64 `json:"revenue" db:"revenue"` // bookings x current price
}

// FrequentCustomer ranks customers by completed visits.
type FrequentCustomer struct {
	CustomerID int64   `json:"id" db:"customer_id"`
	Name       string  `json:"name" db:"name"`
	Phone      string  `json:"phone" db:"phone"`
	Visits     int     `json:"visits" db:"visits"`
	Spent      float64 `json:"spent" db:"spent"`
}

// DashboardSummary holds key metrics for the dashboard.
type DashboardSummary struct {
	TotalCustomers      int              `json:"total_customers"`
	PendingAppointments int              `json:"total_appointments"`
	RevenueToday        float64          `json:"revenue_today"`
	TotalRevenue        float64          `json:"total_revenue"`
	PopularServices     []PopularService `json:"popular_services"`
}

// DetailedReport is the full reporting view.
type DetailedReport struct {
	DailyRevenue      []RevenuePoint        `json:"daily_revenue"`
	MonthlyRevenue    []MonthlyRevenuePoint `json:"monthly_revenue"`
	PopularServices   []PopularService      `json:"popular_services"`
	FrequentCustomers []FrequentCustomer    `json:"frequent_customers"`
}
