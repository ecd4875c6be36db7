package message

import (
	"time"

	"github.com/google/uuid"
)

const MaxContentLength = 4000

type Message struct {
	ID        uuid.UUID
	SwapID    uuid.UUID
	SenderID  uuid.UUID
	Content   string
	CreatedAt time.Time
}
