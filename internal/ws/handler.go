package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// SwapAccess resolves a swap for a participant.
type SwapAccess interface {
	Get(ctx context.Context, actorID, swapID uuid.UUID) (swap.Swap, error)
}

type Handler struct {
	hub    *Hub
	jwt    jwt.Service
	swaps  SwapAccess
	logger *log.Logger
}

func NewHandler(hub *Hub, jwtSvc jwt.Service, swaps SwapAccess, logger *log.Logger) *Handler {
	return &Handler{hub: hub, jwt: jwtSvc, swaps: swaps, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/swaps/:id", h.HandleSwapWS)
}

// HandleSwapWS streams live events of one swap. Browsers cannot set headers on
// a websocket handshake, so the access token may come in the token query param.
func (h *Handler) HandleSwapWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid swap id", nil, err)
	}

	userID, err := h.authenticate(c)
	if err != nil {
		return err
	}

	if _, err := h.swaps.Get(c.Context(), userID, swapID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrSwapNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Swap not found", nil, err)
		case errors.Is(err, usecase.ErrUnauthorized):
			return middleware.NewAppError(fiber.StatusForbidden, "Not a participant of this swap", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | swap_id=%s error=%v", swapID, err)
			}
			return
		}

		client := NewClient(h.hub, conn, swapID, userID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

func (h *Handler) authenticate(c fiber.Ctx) (uuid.UUID, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token, _ = middleware.BearerToken(c.Get("Authorization"))
	}
	if token == "" {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}
	if claims.TokenType != jwt.TokenTypeAccess || claims.UserID == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
	}
	return claims.UserID, nil
}
