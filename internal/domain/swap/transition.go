package swap

import (
	"fmt"

	"github.com/google/uuid"
)

type Role uint8

const (
	RoleSender Role = 1 << iota
	RoleReceiver

	RoleEither = RoleSender | RoleReceiver
)

type edge struct {
	from Status
	to   Status
}

// transitions is the complete lifecycle graph. Anything absent is illegal,
// including self-loops and every edge leaving a terminal status.
var transitions = map[edge]Role{
	{StatusPending, StatusAccepted}:   RoleReceiver,
	{StatusPending, StatusCanceled}:   RoleReceiver,
	{StatusAccepted, StatusCompleted}: RoleEither,
}

func roleOf(s Swap, actor uuid.UUID) Role {
	var r Role
	if actor == uuid.Nil {
		return r
	}
	if s.SenderID == actor {
		r |= RoleSender
	}
	if s.ReceiverID == actor {
		r |= RoleReceiver
	}
	return r
}

// CanTransition reports whether actor may move s to target. Non-participants
// are rejected before the edge is considered.
func CanTransition(s Swap, actor uuid.UUID, target Status) error {
	role := roleOf(s, actor)
	if role == 0 {
		return ErrNotParticipant
	}
	if !target.Valid() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, target)
	}

	allowed, ok := transitions[edge{from: s.Status, to: target}]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, target)
	}
	if allowed&role == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrActorNotAllowed, s.Status, target)
	}
	return nil
}

// Targets returns the statuses actor could move s to right now.
func Targets(s Swap, actor uuid.UUID) []Status {
	out := make([]Status, 0, 2)
	for _, st := range Statuses() {
		if CanTransition(s, actor, st) == nil {
			out = append(out, st)
		}
	}
	return out
}
