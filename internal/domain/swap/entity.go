package swap

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownStatus     = errors.New("unknown swap status")
	ErrNotParticipant    = errors.New("actor is not a participant")
	ErrActorNotAllowed   = errors.New("actor may not apply this transition")
	ErrInvalidTransition = errors.New("invalid swap transition")
)

type Swap struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	ReceiverID  uuid.UUID
	ServiceName string
	Status      Status
	Hours       int
	ScheduledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Swap) IsParticipant(userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	return s.SenderID == userID || s.ReceiverID == userID
}

// Counterpart returns the other participant. ok is false for non-participants.
func (s Swap) Counterpart(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case s.SenderID:
		return s.ReceiverID, true
	case s.ReceiverID:
		return s.SenderID, true
	default:
		return uuid.Nil, false
	}
}

func (s Swap) Participants() []uuid.UUID {
	return []uuid.UUID{s.SenderID, s.ReceiverID}
}
