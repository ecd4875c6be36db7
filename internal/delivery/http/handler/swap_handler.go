package handler

import (
	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SwapHandler struct {
	uc usecase.SwapUsecase
}

type createSwapRequest struct {
	ReceiverID  uuid.UUID `json:"receiver_id"`
	ServiceName string    `json:"service_name"`
	Hours       int       `json:"hours"`
}

type updateSwapStatusRequest struct {
	Status string `json:"status"`
}

func NewSwapHandler(uc usecase.SwapUsecase) *SwapHandler {
	return &SwapHandler{uc: uc}
}

func (h *SwapHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/pending-count", h.PendingCount)
	r.Get("/:id", h.Get)
	r.Post("/:id/accept", h.Accept)
	r.Post("/:id/reject", h.Reject)
	r.Post("/:id/complete", h.Complete)
	r.Patch("/:id/status", h.UpdateStatus)
}

func (h *SwapHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req createSwapRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	s, err := h.uc.Create(c.Context(), userID, req.ReceiverID, req.ServiceName, req.Hours)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewSwapResponse(s))
}

func (h *SwapHandler) List(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}
	offset, err := intQuery(c, "offset")
	if err != nil {
		return err
	}

	items, err := h.uc.ListForUser(c.Context(), userID, usecase.SwapListParams{
		Direction: c.Query("direction"),
		Status:    c.Query("status"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSwapListResponse(items))
}

func (h *SwapHandler) PendingCount(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	n, err := h.uc.PendingIncomingCount(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int{"count": n})
}

func (h *SwapHandler) Get(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	s, err := h.uc.Get(c.Context(), userID, swapID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSwapResponse(s))
}

func (h *SwapHandler) Accept(c fiber.Ctx) error {
	return h.transition(c, swap.StatusAccepted)
}

func (h *SwapHandler) Reject(c fiber.Ctx) error {
	return h.transition(c, swap.StatusCanceled)
}

func (h *SwapHandler) Complete(c fiber.Ctx) error {
	return h.transition(c, swap.StatusCompleted)
}

func (h *SwapHandler) UpdateStatus(c fiber.Ctx) error {
	var req updateSwapStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	target, err := swap.ParseStatus(req.Status)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown swap status", nil, err)
	}
	return h.transition(c, target)
}

func (h *SwapHandler) transition(c fiber.Ctx, target swap.Status) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	s, err := h.uc.Transition(c.Context(), userID, swapID, target)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSwapResponse(s))
}

func (h *SwapHandler) ListConversations(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	items, err := h.uc.ListConversations(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationListResponse(items))
}
