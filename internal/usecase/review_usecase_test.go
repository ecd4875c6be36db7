package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-swap/internal/domain/swap"

	"github.com/google/uuid"
)

func reviewFixture(status swap.Status) (*memSwapRepo, *memReviewRepo, swap.Swap) {
	swaps := newMemSwapRepo()
	s := swaps.put(swap.Swap{SenderID: uuid.New(), ReceiverID: uuid.New(), Status: status})
	return swaps, &memReviewRepo{}, s
}

func TestReviewUsecase_Submit_Duplicate(t *testing.T) {
	swaps, reviews, s := reviewFixture(swap.StatusCompleted)
	uc := NewReviewUsecase(swaps, reviews, nil)
	ctx := context.Background()

	in := SubmitReviewInput{SwapID: s.ID, Rating: 4, Comment: "patient and clear"}
	rv, err := uc.Submit(ctx, s.SenderID, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rv.Comment == nil || *rv.Comment != "patient and clear" {
		t.Fatalf("unexpected comment: %v", rv.Comment)
	}

	_, err = uc.Submit(ctx, s.SenderID, in)
	if !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}

	if _, err := uc.Submit(ctx, s.ReceiverID, in); err != nil {
		t.Fatalf("other participant should be able to review: %v", err)
	}
	if swaps.status(s.ID) != swap.StatusCompleted {
		t.Fatalf("review must not change swap status")
	}
}

func TestReviewUsecase_Submit_DuplicateDetectedOnInsert(t *testing.T) {
	swaps, reviews, s := reviewFixture(swap.StatusCompleted)
	reviews.skipFind = true
	uc := NewReviewUsecase(swaps, reviews, nil)
	ctx := context.Background()

	in := SubmitReviewInput{SwapID: s.ID, Rating: 3}
	if _, err := uc.Submit(ctx, s.ReceiverID, in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Submit(ctx, s.ReceiverID, in); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
}

func TestReviewUsecase_Submit_RatingBounds(t *testing.T) {
	cases := []struct {
		rating int
		ok     bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{6, false},
	}
	for _, tc := range cases {
		swaps, reviews, s := reviewFixture(swap.StatusCompleted)
		uc := NewReviewUsecase(swaps, reviews, nil)

		_, err := uc.Submit(context.Background(), s.SenderID, SubmitReviewInput{SwapID: s.ID, Rating: tc.rating})
		if tc.ok && err != nil {
			t.Fatalf("rating %d: unexpected err: %v", tc.rating, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", tc.rating, err)
		}
	}
}

func TestReviewUsecase_Submit_Access(t *testing.T) {
	swaps, reviews, s := reviewFixture(swap.StatusCompleted)
	uc := NewReviewUsecase(swaps, reviews, nil)
	ctx := context.Background()

	if _, err := uc.Submit(ctx, uuid.New(), SubmitReviewInput{SwapID: s.ID, Rating: 5}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.Submit(ctx, s.SenderID, SubmitReviewInput{SwapID: uuid.New(), Rating: 5}); !errors.Is(err, ErrSwapNotFound) {
		t.Fatalf("expected ErrSwapNotFound, got %v", err)
	}
	if len(reviews.items) != 0 {
		t.Fatalf("nothing should have been stored")
	}
}

func TestReviewUsecase_Submit_BlankCommentStoredAsNull(t *testing.T) {
	swaps, reviews, s := reviewFixture(swap.StatusAccepted)
	uc := NewReviewUsecase(swaps, reviews, nil)

	rv, err := uc.Submit(context.Background(), s.SenderID, SubmitReviewInput{SwapID: s.ID, Rating: 2, Comment: "   "})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rv.Comment != nil {
		t.Fatalf("expected nil comment, got %q", *rv.Comment)
	}
}

func TestReviewUsecase_FindMine(t *testing.T) {
	swaps, reviews, s := reviewFixture(swap.StatusCompleted)
	uc := NewReviewUsecase(swaps, reviews, nil)
	ctx := context.Background()

	_, found, err := uc.FindMine(ctx, s.SenderID, s.ID)
	if err != nil || found {
		t.Fatalf("expected not found, got found=%v err=%v", found, err)
	}

	if _, err := uc.Submit(ctx, s.SenderID, SubmitReviewInput{SwapID: s.ID, Rating: 5}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	rv, found, err := uc.FindMine(ctx, s.SenderID, s.ID)
	if err != nil || !found || rv.Rating != 5 {
		t.Fatalf("expected own review, got rv=%+v found=%v err=%v", rv, found, err)
	}

	_, found, err = uc.FindMine(ctx, s.ReceiverID, s.ID)
	if err != nil || found {
		t.Fatalf("receiver has not reviewed yet, got found=%v err=%v", found, err)
	}

	if _, _, err := uc.FindMine(ctx, uuid.New(), s.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReviewUsecase_ListForUser(t *testing.T) {
	swaps, reviews, s := reviewFixture(swap.StatusCompleted)
	uc := NewReviewUsecase(swaps, reviews, nil)
	ctx := context.Background()

	if _, err := uc.Submit(ctx, s.SenderID, SubmitReviewInput{SwapID: s.ID, Rating: 4}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	items, sum, err := uc.ListForUser(ctx, s.ReceiverID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 || sum.Count != 1 || sum.AverageRating != 4 {
		t.Fatalf("unexpected result: items=%d summary=%+v", len(items), sum)
	}
}
