package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"skill-swap/internal/usecase"

	"github.com/google/uuid"
)

const EventsChannel = "swap-events"

// PubSub fans events out to every API instance.
type PubSub interface {
	Available() bool
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, fn func([]byte)) error
}

type envelope struct {
	Type      string    `json:"type"`
	SwapID    uuid.UUID `json:"swap_id"`
	Data      any       `json:"data"`
	Timestamp string    `json:"timestamp"`
}

// Relay implements usecase.EventPublisher on top of the hub. With a pub/sub
// bus every instance receives the event through Run; without one it is
// delivered to the local hub only.
type Relay struct {
	hub    *Hub
	bus    PubSub
	logger *log.Logger
	now    func() time.Time
}

var _ usecase.EventPublisher = (*Relay)(nil)

func NewRelay(hub *Hub, bus PubSub, logger *log.Logger) *Relay {
	return &Relay{hub: hub, bus: bus, logger: logger, now: time.Now}
}

func (r *Relay) Publish(ctx context.Context, evt usecase.Event) error {
	if evt.SwapID == uuid.Nil {
		return errors.New("event without swap id")
	}
	b, err := json.Marshal(envelope{
		Type:      evt.Type,
		SwapID:    evt.SwapID,
		Data:      evt.Data,
		Timestamp: r.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	if r.distributed() {
		err := r.bus.Publish(ctx, EventsChannel, b)
		if err == nil {
			return nil
		}
		r.logf("WS relay publish failed, delivering locally | swap_id=%s error=%v", evt.SwapID, err)
	}

	r.hub.Broadcast(evt.SwapID, b)
	return nil
}

// Run forwards bus events to the local hub until ctx is done. It returns
// immediately when no bus is configured.
func (r *Relay) Run(ctx context.Context) error {
	if !r.distributed() {
		return nil
	}
	r.logf("WS relay subscribed | channel=%s", EventsChannel)
	return r.bus.Subscribe(ctx, EventsChannel, r.deliver)
}

func (r *Relay) deliver(payload []byte) {
	var head struct {
		SwapID uuid.UUID `json:"swap_id"`
	}
	if err := json.Unmarshal(payload, &head); err != nil || head.SwapID == uuid.Nil {
		r.logf("WS relay dropped malformed event | error=%v", err)
		return
	}
	r.hub.Broadcast(head.SwapID, payload)
}

func (r *Relay) distributed() bool {
	return r.bus != nil && r.bus.Available()
}

func (r *Relay) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
