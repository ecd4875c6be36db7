package dto

import (
	"time"

	"skill-swap/internal/domain/message"

	"github.com/google/uuid"
)

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	SwapID    uuid.UUID `json:"swap_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessageResponse(m message.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		SwapID:    m.SwapID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func NewMessageListResponse(items []message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMessageResponse(m))
	}
	return out
}
