package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

// ErrValidation wraps every input rejection raised by the service layer.
var ErrValidation = errors.New("validation error")

// TxRunner is the unit-of-work boundary; *database.Store implements it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	WithReadTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// fieldValidator checks single values that are only known after normalisation.
var fieldValidator = validator.New()

var clockRegex = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// IsValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// NormalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormalizeClock(s string) (string, bool) {
	if !clockRegex.MatchString(s) {
		return "", false
	}
	if len(s) == 5 {
		s += ":00"
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return "", false
	}
	return s, true
}

// dedupeIDs drops repeated ids, keeping first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// pageBounds applies the default skip/limit of list endpoints.
func pageBounds(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	return skip, limit
}
