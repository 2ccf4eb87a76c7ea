package models

// Service is an offering in the salon catalogue.
type Service struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Category string  `json:"category" db:"category"`
	Price    float64 `json:"price" db:"price"`
	Duration int     `json:"duration" db:"duration_minutes"` // minutes
}
