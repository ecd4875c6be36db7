package dto

import (
	"time"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type SwapResponse struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	ReceiverID  uuid.UUID  `json:"receiver_id"`
	ServiceName string     `json:"service_name"`
	Status      string     `json:"status"`
	Hours       int        `json:"hours"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewSwapResponse(s swap.Swap) SwapResponse {
	return SwapResponse{
		ID:          s.ID,
		SenderID:    s.SenderID,
		ReceiverID:  s.ReceiverID,
		ServiceName: s.ServiceName,
		Status:      s.Status.String(),
		Hours:       s.Hours,
		ScheduledAt: s.ScheduledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewSwapListResponse(items []swap.Swap) []SwapResponse {
	out := make([]SwapResponse, 0, len(items))
	for _, s := range items {
		out = append(out, NewSwapResponse(s))
	}
	return out
}

type CounterpartResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
}

type ConversationResponse struct {
	Swap        SwapResponse        `json:"swap"`
	Counterpart CounterpartResponse `json:"counterpart"`
	LastMessage *MessageResponse    `json:"last_message"`
}

func NewConversationListResponse(items []repository.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(items))
	for _, c := range items {
		res := ConversationResponse{
			Swap: NewSwapResponse(c.Swap),
			Counterpart: CounterpartResponse{
				ID:        c.Counterpart.ID,
				Username:  c.Counterpart.Username,
				AvatarURL: c.Counterpart.AvatarURL,
			},
		}
		if c.LastMessage != nil {
			m := NewMessageResponse(*c.LastMessage)
			res.LastMessage = &m
		}
		out = append(out, res)
	}
	return out
}
