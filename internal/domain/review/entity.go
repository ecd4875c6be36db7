package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Review struct {
	ID         uuid.UUID
	SwapID     uuid.UUID
	ReviewerID uuid.UUID
	Rating     int
	Comment    *string
	CreatedAt  time.Time
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// Summary aggregates the reviews a user has received.
type Summary struct {
	Count         int
	AverageRating float64
}

func Summarize(items []Review) Summary {
	if len(items) == 0 {
		return Summary{}
	}
	total := 0
	for _, r := range items {
		total += r.Rating
	}
	return Summary{Count: len(items), AverageRating: float64(total) / float64(len(items))}
}
