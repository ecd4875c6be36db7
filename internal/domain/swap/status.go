package swap

import (
	"fmt"
	"strings"
)

type Status uint8

const (
	StatusPending Status = iota + 1
	StatusAccepted
	StatusCompleted
	StatusCanceled
)

var statusNames = map[Status]string{
	StatusPending:   "pending",
	StatusAccepted:  "accepted",
	StatusCompleted: "completed",
	StatusCanceled:  "canceled",
}

// Statuses lists every variant in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusCompleted, StatusCanceled}
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// ParseStatus maps a stored or user-supplied label to a Status. "rejected" is
// accepted as an alias of canceled since rejection is stored as cancellation.
func ParseStatus(raw string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "rejected" || v == "cancelled" {
		return StatusCanceled, nil
	}
	for st, name := range statusNames {
		if name == v {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	st, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
