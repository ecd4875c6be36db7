package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type roomMessage struct {
	swapID  uuid.UUID
	payload []byte
}

// Hub keeps one room per swap. Only the Run goroutine mutates rooms; readers
// take the read lock.
type Hub struct {
	rooms      map[uuid.UUID]map[*Client]struct{}
	broadcast  chan roomMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		broadcast:  make(chan roomMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			room, ok := h.rooms[client.swapID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.swapID] = room
			}
			room[client] = struct{}{}
			size := len(room)
			h.mutex.Unlock()
			h.logf("WS connected | swap_id=%s user_id=%s room_clients=%d", client.swapID, client.userID, size)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.remove(client)
			size := len(h.rooms[client.swapID])
			h.mutex.Unlock()
			h.logf("WS disconnected | swap_id=%s user_id=%s room_clients=%d", client.swapID, client.userID, size)

		case msg := <-h.broadcast:
			h.mutex.Lock()
			room := h.rooms[msg.swapID]
			delivered := 0
			for client := range room {
				select {
				case client.send <- msg.payload:
					delivered++
				default:
					h.remove(client)
				}
			}
			h.mutex.Unlock()
			h.logf("WS broadcast | swap_id=%s clients=%d", msg.swapID, delivered)
		}
	}
}

// remove must be called with the write lock held.
func (h *Hub) remove(client *Client) {
	room, ok := h.rooms[client.swapID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.swapID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, room := range h.rooms {
		for client := range room {
			close(client.send)
		}
	}
	h.rooms = make(map[uuid.UUID]map[*Client]struct{})
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

func (h *Hub) Broadcast(swapID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- roomMessage{swapID: swapID, payload: payload}:
	default:
		h.logf("WS broadcast dropped | swap_id=%s reason=buffer_full", swapID)
	}
}

func (h *Hub) ClientCount(swapID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[swapID])
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
