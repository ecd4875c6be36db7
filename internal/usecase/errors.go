package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrSwapNotFound        = errors.New("swap not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidTransition   = errors.New("invalid swap transition")
	ErrSelfSwap            = errors.New("cannot request a swap with yourself")
	ErrInsufficientBalance = errors.New("insufficient time balance")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview     = errors.New("review already submitted")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPersistence         = errors.New("persistence error")

	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

// persistence wraps a collaborator failure so callers can match ErrPersistence
// while logs keep the cause.
func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}
