package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"skill-swap/internal/domain/message"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultMessageListLimit = 100
	maxMessageListLimit     = 500
)

type MessageUsecase interface {
	Send(ctx context.Context, senderID, swapID uuid.UUID, content string) (message.Message, error)
	// List returns history oldest first. before pages backwards when set.
	List(ctx context.Context, viewerID, swapID uuid.UUID, limit int, before *time.Time) ([]message.Message, error)
}

type messageUsecase struct {
	swaps    repository.SwapRepository
	messages repository.MessageRepository
	events   EventPublisher
	logger   *log.Logger
}

func NewMessageUsecase(swaps repository.SwapRepository, messages repository.MessageRepository, events EventPublisher, logger *log.Logger) MessageUsecase {
	return &messageUsecase{swaps: swaps, messages: messages, events: events, logger: logger}
}

type messageCreatedPayload struct {
	ID        uuid.UUID `json:"id"`
	SwapID    uuid.UUID `json:"swap_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *messageUsecase) Send(ctx context.Context, senderID, swapID uuid.UUID, content string) (message.Message, error) {
	if senderID == uuid.Nil {
		return message.Message{}, ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > message.MaxContentLength {
		return message.Message{}, ErrInvalidInput
	}

	// Participancy is enforced by the conditional insert.
	m, err := u.messages.Append(ctx, swapID, senderID, content)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotParticipant):
			return message.Message{}, ErrUnauthorized
		case errors.Is(err, repository.ErrSwapNotFound):
			return message.Message{}, ErrSwapNotFound
		default:
			u.logf("message_send swap_id=%s sender=%s status=error err=%v", swapID, senderID, err)
			return message.Message{}, persistence("append message", err)
		}
	}

	if u.events != nil {
		evt := Event{
			Type:   EventMessageCreated,
			SwapID: m.SwapID,
			Data: messageCreatedPayload{
				ID:        m.ID,
				SwapID:    m.SwapID,
				SenderID:  m.SenderID,
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			},
		}
		if err := u.events.Publish(ctx, evt); err != nil {
			u.logf("event_publish type=%s swap_id=%s status=error err=%v", evt.Type, evt.SwapID, err)
		}
	}
	return m, nil
}

func (u *messageUsecase) List(ctx context.Context, viewerID, swapID uuid.UUID, limit int, before *time.Time) ([]message.Message, error) {
	if limit < 0 || limit > maxMessageListLimit {
		return nil, ErrInvalidInput
	}
	if limit == 0 {
		limit = defaultMessageListLimit
	}

	s, err := u.swaps.GetByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, repository.ErrSwapNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, persistence("get swap", err)
	}
	if !s.IsParticipant(viewerID) {
		return nil, ErrUnauthorized
	}

	items, err := u.messages.ListBySwap(ctx, swapID, limit, before)
	if err != nil {
		return nil, persistence("list messages", err)
	}
	return items, nil
}

func (u *messageUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
