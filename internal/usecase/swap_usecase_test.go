package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

func TestSwapUsecase_Scenario(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	s := repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending})
	uc := NewSwapUsecase(repo, nil, nil, nil)
	ctx := context.Background()

	got, err := uc.Transition(ctx, b, s.ID, swap.StatusAccepted)
	if err != nil {
		t.Fatalf("accept: unexpected err: %v", err)
	}
	if got.Status != swap.StatusAccepted {
		t.Fatalf("expected accepted, got %s", got.Status)
	}

	got, err = uc.Transition(ctx, a, s.ID, swap.StatusCompleted)
	if err != nil {
		t.Fatalf("complete: unexpected err: %v", err)
	}
	if got.Status != swap.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}

	_, err = uc.Transition(ctx, a, s.ID, swap.StatusAccepted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if repo.status(s.ID) != swap.StatusCompleted {
		t.Fatalf("terminal status changed to %s", repo.status(s.ID))
	}
}

func TestSwapUsecase_NonParticipantAlwaysUnauthorized(t *testing.T) {
	ctx := context.Background()
	stranger := uuid.New()
	for _, from := range swap.Statuses() {
		for _, to := range swap.Statuses() {
			repo := newMemSwapRepo()
			s := repo.put(swap.Swap{SenderID: uuid.New(), ReceiverID: uuid.New(), Status: from})
			uc := NewSwapUsecase(repo, nil, nil, nil)

			_, err := uc.Transition(ctx, stranger, s.ID, to)
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("%s -> %s: expected ErrUnauthorized, got %v", from, to, err)
			}
			if repo.status(s.ID) != from {
				t.Fatalf("%s -> %s: status changed", from, to)
			}
		}
	}
}

func TestSwapUsecase_SecondAcceptFails(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	s := repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending})
	uc := NewSwapUsecase(repo, nil, nil, nil)

	if _, err := uc.Accept(context.Background(), b, s.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := uc.Accept(context.Background(), b, s.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSwapUsecase_SenderCannotAccept(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	s := repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending})
	uc := NewSwapUsecase(repo, nil, nil, nil)

	_, err := uc.Accept(context.Background(), a, s.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	_, err = uc.Reject(context.Background(), a, s.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if repo.status(s.ID) != swap.StatusPending {
		t.Fatalf("expected pending, got %s", repo.status(s.ID))
	}
}

func TestSwapUsecase_TransitionNotFound(t *testing.T) {
	uc := NewSwapUsecase(newMemSwapRepo(), nil, nil, nil)
	_, err := uc.Complete(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrSwapNotFound) {
		t.Fatalf("expected ErrSwapNotFound, got %v", err)
	}
}

func TestSwapUsecase_PersistenceFailure(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	s := repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending})
	repo.updateErr = errBoom
	uc := NewSwapUsecase(repo, nil, nil, nil)

	_, err := uc.Accept(context.Background(), b, s.ID)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestSwapUsecase_ConcurrentAcceptAndCancel(t *testing.T) {
	for i := 0; i < 50; i++ {
		repo := newMemSwapRepo()
		a, b := uuid.New(), uuid.New()
		repo.balances[a] = 0
		repo.balances[b] = 0
		s := repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending, Hours: 3})

		// Hold both callers until each has read the pending row.
		var gate sync.WaitGroup
		gate.Add(2)
		repo.beforeUpdate = func() {
			gate.Done()
			gate.Wait()
		}

		uc := NewSwapUsecase(repo, nil, nil, nil)
		targets := []swap.Status{swap.StatusAccepted, swap.StatusCanceled}
		errs := make([]error, len(targets))

		var wg sync.WaitGroup
		for j, target := range targets {
			wg.Add(1)
			go func(j int, target swap.Status) {
				defer wg.Done()
				_, errs[j] = uc.Transition(context.Background(), b, s.ID, target)
			}(j, target)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInvalidTransition):
			default:
				t.Fatalf("unexpected err: %v", err)
			}
		}
		if succeeded != 1 {
			t.Fatalf("expected exactly one winner, got %d (errs=%v)", succeeded, errs)
		}

		final := repo.status(s.ID)
		switch final {
		case swap.StatusAccepted:
			if errs[0] != nil || repo.balance(a) != 0 {
				t.Fatalf("accepted but accept failed or sender refunded: errs=%v balance=%d", errs, repo.balance(a))
			}
		case swap.StatusCanceled:
			if errs[1] != nil || repo.balance(a) != 3 {
				t.Fatalf("canceled but cancel failed or refund missing: errs=%v balance=%d", errs, repo.balance(a))
			}
		default:
			t.Fatalf("unexpected final status %s", final)
		}
	}
}

func TestSwapUsecase_SettlementCredits(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	repo.balances[a] = 5
	repo.balances[b] = 5
	uc := NewSwapUsecase(repo, nil, nil, nil)
	ctx := context.Background()

	s, err := uc.Create(ctx, a, b, "  Spanish   tutoring ", 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.ServiceName != "Spanish tutoring" {
		t.Fatalf("expected normalized service name, got %q", s.ServiceName)
	}
	if repo.balance(a) != 3 {
		t.Fatalf("expected sender debited to 3, got %d", repo.balance(a))
	}

	if _, err := uc.Accept(ctx, b, s.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Complete(ctx, b, s.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.balance(b) != 7 {
		t.Fatalf("expected receiver credited to 7, got %d", repo.balance(b))
	}
	if repo.balance(a) != 3 {
		t.Fatalf("expected sender to stay at 3, got %d", repo.balance(a))
	}
}

func TestSwapUsecase_Create_Validation(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	repo.balances[a] = 1
	repo.balances[b] = 0
	uc := NewSwapUsecase(repo, nil, nil, nil)
	ctx := context.Background()

	if _, err := uc.Create(ctx, a, a, "Cooking", 1); !errors.Is(err, ErrSelfSwap) {
		t.Fatalf("expected ErrSelfSwap, got %v", err)
	}
	if _, err := uc.Create(ctx, a, b, "Cooking", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero hours, got %v", err)
	}
	if _, err := uc.Create(ctx, a, b, "   ", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank service, got %v", err)
	}

	_, err := uc.Create(ctx, a, b, "Cooking", 4)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if !strings.Contains(err.Error(), "not enough hours") {
		t.Fatalf("expected procedure message to propagate, got %q", err.Error())
	}
	if repo.balance(a) != 1 {
		t.Fatalf("balance changed on rejected request: %d", repo.balance(a))
	}

	if _, err := uc.Create(ctx, a, uuid.New(), "Cooking", 1); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	repo.requestErr = errBoom
	if _, err := uc.Create(ctx, a, b, "Cooking", 1); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestSwapUsecase_SideEffects(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	s := repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending})
	cache := newMemCache()
	pub := &recordingPublisher{err: errBoom}
	uc := NewSwapUsecase(repo, cache, pub, nil)

	if _, err := uc.Accept(context.Background(), b, s.ID); err != nil {
		t.Fatalf("publisher failure must not fail the transition: %v", err)
	}

	want := map[string]bool{UserStatsCacheKey(a): false, UserStatsCacheKey(b): false}
	for _, k := range cache.deleted {
		want[k] = true
	}
	for k, ok := range want {
		if !ok {
			t.Fatalf("expected cache key %s invalidated", k)
		}
	}

	events := pub.snapshot()
	if len(events) != 1 || events[0].Type != EventSwapUpdated || events[0].SwapID != s.ID {
		t.Fatalf("unexpected events: %+v", events)
	}

	_, _ = uc.Accept(context.Background(), b, s.ID)
	if len(pub.snapshot()) != 1 {
		t.Fatalf("failed transition must not publish")
	}
}

func TestSwapUsecase_Get(t *testing.T) {
	repo := newMemSwapRepo()
	a, b := uuid.New(), uuid.New()
	s := repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending})
	uc := NewSwapUsecase(repo, nil, nil, nil)

	if _, err := uc.Get(context.Background(), a, s.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.Get(context.Background(), uuid.New(), s.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.Get(context.Background(), a, uuid.New()); !errors.Is(err, ErrSwapNotFound) {
		t.Fatalf("expected ErrSwapNotFound, got %v", err)
	}
}

func TestSwapUsecase_ListForUser(t *testing.T) {
	repo := newMemSwapRepo()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo.put(swap.Swap{SenderID: a, ReceiverID: b, Status: swap.StatusPending})
	repo.put(swap.Swap{SenderID: c, ReceiverID: a, Status: swap.StatusPending})
	repo.put(swap.Swap{SenderID: c, ReceiverID: a, Status: swap.StatusCanceled})
	uc := NewSwapUsecase(repo, nil, nil, nil)
	ctx := context.Background()

	all, err := uc.ListForUser(ctx, a, SwapListParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 swaps, got %d", len(all))
	}

	incoming, err := uc.ListForUser(ctx, a, SwapListParams{Direction: "incoming", Status: "rejected"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(incoming) != 1 || incoming[0].Status != swap.StatusCanceled {
		t.Fatalf("unexpected incoming swaps: %+v", incoming)
	}

	if _, err := uc.ListForUser(ctx, a, SwapListParams{Direction: "sideways"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.ListForUser(ctx, a, SwapListParams{Status: "rated"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	n, err := uc.PendingIncomingCount(ctx, a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pending incoming, got %d", n)
	}
}

func TestSwapListParams_Filter(t *testing.T) {
	id := uuid.New()
	f, err := SwapListParams{Direction: "Outgoing", Limit: 0}.filter(id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.Direction != repository.DirectionOutgoing || f.Limit != defaultSwapListLimit || f.Status != nil {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if _, err := (SwapListParams{Limit: maxSwapListLimit + 1}).filter(id); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
