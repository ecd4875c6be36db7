package dto

import (
	"time"

	"skill-swap/internal/domain/review"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	SwapID     uuid.UUID `json:"swap_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewReviewResponse(r review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		SwapID:     r.SwapID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

type MyReviewResponse struct {
	Reviewed bool            `json:"reviewed"`
	Review   *ReviewResponse `json:"review"`
}

type ReceivedReviewsResponse struct {
	Count         int              `json:"count"`
	AverageRating float64          `json:"average_rating"`
	Reviews       []ReviewResponse `json:"reviews"`
}

func NewReceivedReviewsResponse(items []review.Review, sum review.Summary) ReceivedReviewsResponse {
	out := ReceivedReviewsResponse{
		Count:         sum.Count,
		AverageRating: sum.AverageRating,
		Reviews:       make([]ReviewResponse, 0, len(items)),
	}
	for _, r := range items {
		out.Reviews = append(out.Reviews, NewReviewResponse(r))
	}
	return out
}
