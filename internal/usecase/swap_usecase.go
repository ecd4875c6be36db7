package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultSwapListLimit = 50
	maxSwapListLimit     = 200
	maxServiceNameLength = 200
)

type SwapListParams struct {
	Direction string
	Status    string
	Limit     int
	Offset    int
}

type SwapUsecase interface {
	Create(ctx context.Context, senderID, receiverID uuid.UUID, serviceName string, hours int) (swap.Swap, error)
	Transition(ctx context.Context, actorID, swapID uuid.UUID, target swap.Status) (swap.Swap, error)
	Accept(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error)
	Reject(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error)
	Complete(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error)

	Get(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params SwapListParams) ([]swap.Swap, error)
	PendingIncomingCount(ctx context.Context, userID uuid.UUID) (int, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]repository.Conversation, error)
}

type swapUsecase struct {
	swaps  repository.SwapRepository
	cache  StatsCache
	events EventPublisher
	logger *log.Logger
}

func NewSwapUsecase(swaps repository.SwapRepository, cache StatsCache, events EventPublisher, logger *log.Logger) SwapUsecase {
	return &swapUsecase{swaps: swaps, cache: cache, events: events, logger: logger}
}

type swapUpdatedPayload struct {
	ID        uuid.UUID   `json:"id"`
	Status    swap.Status `json:"status"`
	ActorID   uuid.UUID   `json:"actor_id"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (u *swapUsecase) Create(ctx context.Context, senderID, receiverID uuid.UUID, serviceName string, hours int) (swap.Swap, error) {
	if senderID == uuid.Nil {
		return swap.Swap{}, ErrUnauthorized
	}
	if receiverID == uuid.Nil {
		return swap.Swap{}, ErrInvalidInput
	}
	if senderID == receiverID {
		return swap.Swap{}, ErrSelfSwap
	}
	serviceName = strings.Join(strings.Fields(serviceName), " ")
	if serviceName == "" || len(serviceName) > maxServiceNameLength || hours <= 0 {
		return swap.Swap{}, ErrInvalidInput
	}

	res, err := u.swaps.RequestSwap(ctx, senderID, receiverID, serviceName, hours)
	if err != nil {
		u.logf("swap_create sender=%s receiver=%s status=error err=%v", senderID, receiverID, err)
		return swap.Swap{}, persistence("request swap", err)
	}
	if !res.Success {
		u.logf("swap_create sender=%s receiver=%s status=rejected code=%s", senderID, receiverID, res.Code)
		return swap.Swap{}, requestVerdictError(res)
	}

	created, err := u.swaps.GetByID(ctx, res.SwapID)
	if err != nil {
		return swap.Swap{}, persistence("load created swap", err)
	}

	u.logf("swap_create swap_id=%s sender=%s receiver=%s hours=%d status=ok", created.ID, senderID, receiverID, hours)
	u.invalidateStats(ctx, created)
	return created, nil
}

func requestVerdictError(res repository.RequestSwapResult) error {
	var base error
	switch res.Code {
	case repository.RequestCodeSelfSwap:
		base = ErrSelfSwap
	case repository.RequestCodeInvalidHours:
		base = ErrInvalidInput
	case repository.RequestCodeReceiverNotFound:
		base = ErrProfileNotFound
	default:
		base = ErrInsufficientBalance
	}
	if msg := strings.TrimSpace(res.Message); msg != "" {
		return fmt.Errorf("%w: %s", base, msg)
	}
	return base
}

func (u *swapUsecase) Transition(ctx context.Context, actorID, swapID uuid.UUID, target swap.Status) (swap.Swap, error) {
	current, err := u.swaps.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, repository.ErrSwapNotFound) {
			return swap.Swap{}, ErrSwapNotFound
		}
		return swap.Swap{}, persistence("get swap", err)
	}

	if err := swap.CanTransition(current, actorID, target); err != nil {
		u.logf("swap_transition swap_id=%s from=%s to=%s actor=%s status=denied err=%v", swapID, current.Status, target, actorID, err)
		switch {
		case errors.Is(err, swap.ErrNotParticipant), errors.Is(err, swap.ErrActorNotAllowed):
			return swap.Swap{}, ErrUnauthorized
		default:
			return swap.Swap{}, ErrInvalidTransition
		}
	}

	updated, err := u.swaps.UpdateStatus(ctx, swapID, current.Status, target)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSwapConflict):
			u.logf("swap_transition swap_id=%s from=%s to=%s actor=%s status=conflict", swapID, current.Status, target, actorID)
			return swap.Swap{}, ErrInvalidTransition
		case errors.Is(err, repository.ErrSwapNotFound):
			return swap.Swap{}, ErrSwapNotFound
		default:
			u.logf("swap_transition swap_id=%s from=%s to=%s actor=%s status=error err=%v", swapID, current.Status, target, actorID, err)
			return swap.Swap{}, persistence("update swap status", err)
		}
	}

	u.logf("swap_transition swap_id=%s from=%s to=%s actor=%s status=ok", swapID, current.Status, updated.Status, actorID)

	u.invalidateStats(ctx, updated)
	u.publish(ctx, Event{
		Type:   EventSwapUpdated,
		SwapID: updated.ID,
		Data: swapUpdatedPayload{
			ID:        updated.ID,
			Status:    updated.Status,
			ActorID:   actorID,
			UpdatedAt: updated.UpdatedAt,
		},
	})
	return updated, nil
}

func (u *swapUsecase) Accept(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error) {
	return u.Transition(ctx, actorID, swapID, swap.StatusAccepted)
}

func (u *swapUsecase) Reject(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error) {
	return u.Transition(ctx, actorID, swapID, swap.StatusCanceled)
}

func (u *swapUsecase) Complete(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error) {
	return u.Transition(ctx, actorID, swapID, swap.StatusCompleted)
}

func (u *swapUsecase) Get(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error) {
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

func (u *swapUsecase) ListForUser(ctx context.Context, userID uuid.UUID, params SwapListParams) ([]swap.Swap, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	f, err := params.filter(userID)
	if err != nil {
		return nil, err
	}
	items, err := u.swaps.ListForUser(ctx, f)
	if err != nil {
		return nil, persistence("list swaps", err)
	}
	return items, nil
}

func (p SwapListParams) filter(userID uuid.UUID) (repository.SwapListFilter, error) {
	f := repository.SwapListFilter{UserID: userID, Direction: repository.DirectionAll}

	switch repository.Direction(strings.ToLower(strings.TrimSpace(p.Direction))) {
	case "", repository.DirectionAll:
	case repository.DirectionIncoming:
		f.Direction = repository.DirectionIncoming
	case repository.DirectionOutgoing:
		f.Direction = repository.DirectionOutgoing
	default:
		return repository.SwapListFilter{}, ErrInvalidInput
	}

	if raw := strings.TrimSpace(p.Status); raw != "" {
		st, err := swap.ParseStatus(raw)
		if err != nil {
			return repository.SwapListFilter{}, ErrInvalidInput
		}
		f.Status = &st
	}

	if p.Limit < 0 || p.Offset < 0 || p.Limit > maxSwapListLimit {
		return repository.SwapListFilter{}, ErrInvalidInput
	}
	f.Limit = p.Limit
	if f.Limit == 0 {
		f.Limit = defaultSwapListLimit
	}
	f.Offset = p.Offset
	return f, nil
}

func (u *swapUsecase) PendingIncomingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}
	n, err := u.swaps.CountPendingIncoming(ctx, userID)
	if err != nil {
		return 0, persistence("count pending swaps", err)
	}
	return n, nil
}

func (u *swapUsecase) ListConversations(ctx context.Context, userID uuid.UUID) ([]repository.Conversation, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := u.swaps.ListConversations(ctx, userID)
	if err != nil {
		return nil, persistence("list conversations", err)
	}
	return items, nil
}

func (u *swapUsecase) invalidateStats(ctx context.Context, s swap.Swap) {
	if u.cache == nil {
		return
	}
	keys := make([]string, 0, 2)
	for _, id := range s.Participants() {
		keys = append(keys, UserStatsCacheKey(id))
	}
	if err := u.cache.Delete(ctx, keys...); err != nil {
		u.logf("stats_cache_invalidate swap_id=%s status=error err=%v", s.ID, err)
	}
}

func (u *swapUsecase) publish(ctx context.Context, evt Event) {
	if u.events == nil {
		return
	}
	if err := u.events.Publish(ctx, evt); err != nil {
		u.logf("event_publish type=%s swap_id=%s status=error err=%v", evt.Type, evt.SwapID, err)
	}
}

func (u *swapUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
