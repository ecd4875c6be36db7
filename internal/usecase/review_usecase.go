package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"skill-swap/internal/domain/review"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

const maxReviewCommentLength = 2000

type SubmitReviewInput struct {
	SwapID  uuid.UUID
	Rating  int
	Comment string
}

type ReviewUsecase interface {
	Submit(ctx context.Context, reviewerID uuid.UUID, in SubmitReviewInput) (review.Review, error)
	// FindMine reports whether reviewerID already reviewed the swap.
	FindMine(ctx context.Context, reviewerID, swapID uuid.UUID) (review.Review, bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]review.Review, review.Summary, error)
}

type reviewUsecase struct {
	swaps   repository.SwapRepository
	reviews repository.ReviewRepository
	logger  *log.Logger
}

func NewReviewUsecase(swaps repository.SwapRepository, reviews repository.ReviewRepository, logger *log.Logger) ReviewUsecase {
	return &reviewUsecase{swaps: swaps, reviews: reviews, logger: logger}
}

// Submit never changes the swap's status.
func (u *reviewUsecase) Submit(ctx context.Context, reviewerID uuid.UUID, in SubmitReviewInput) (review.Review, error) {
	if _, err := u.participantSwap(ctx, reviewerID, in.SwapID); err != nil {
		return review.Review{}, err
	}
	if err := review.ValidateRating(in.Rating); err != nil {
		return review.Review{}, ErrInvalidRating
	}

	var comment *string
	if c := strings.TrimSpace(in.Comment); c != "" {
		if len(c) > maxReviewCommentLength {
			return review.Review{}, ErrInvalidInput
		}
		comment = &c
	}

	_, err := u.reviews.FindBySwapAndReviewer(ctx, in.SwapID, reviewerID)
	switch {
	case err == nil:
		return review.Review{}, ErrDuplicateReview
	case !errors.Is(err, repository.ErrReviewNotFound):
		return review.Review{}, persistence("find review", err)
	}

	created, err := u.reviews.Insert(ctx, review.Review{
		ID:         uuid.New(),
		SwapID:     in.SwapID,
		ReviewerID: reviewerID,
		Rating:     in.Rating,
		Comment:    comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewExists):
			return review.Review{}, ErrDuplicateReview
		case errors.Is(err, repository.ErrSwapNotFound):
			return review.Review{}, ErrSwapNotFound
		default:
			u.logf("review_submit swap_id=%s reviewer=%s status=error err=%v", in.SwapID, reviewerID, err)
			return review.Review{}, persistence("insert review", err)
		}
	}

	u.logf("review_submit swap_id=%s reviewer=%s rating=%d status=ok", in.SwapID, reviewerID, in.Rating)
	return created, nil
}

func (u *reviewUsecase) FindMine(ctx context.Context, reviewerID, swapID uuid.UUID) (review.Review, bool, error) {
	if _, err := u.participantSwap(ctx, reviewerID, swapID); err != nil {
		return review.Review{}, false, err
	}
	rv, err := u.reviews.FindBySwapAndReviewer(ctx, swapID, reviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return review.Review{}, false, nil
		}
		return review.Review{}, false, persistence("find review", err)
	}
	return rv, true, nil
}

func (u *reviewUsecase) ListForUser(ctx context.Context, userID uuid.UUID) ([]review.Review, review.Summary, error) {
	if userID == uuid.Nil {
		return nil, review.Summary{}, ErrInvalidInput
	}
	items, err := u.reviews.ListReceived(ctx, userID)
	if err != nil {
		return nil, review.Summary{}, persistence("list reviews", err)
	}
	return items, review.Summarize(items), nil
}

func (u *reviewUsecase) participantSwap(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error) {
	s, err := u.swaps.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, repository.ErrSwapNotFound) {
			return swap.Swap{}, ErrSwapNotFound
		}
		return swap.Swap{}, persistence("get swap", err)
	}
	if !s.IsParticipant(actorID) {
		return swap.Swap{}, ErrUnauthorized
	}
	return s, nil
}

func (u *reviewUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
