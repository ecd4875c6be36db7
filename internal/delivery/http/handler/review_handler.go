package handler

import (
	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterSwapRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/:id/reviews", h.Submit)
	r.Get("/:id/reviews/me", h.Mine)
}

func (h *ReviewHandler) RegisterProfileRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:id/reviews", h.Received)
}

func (h *ReviewHandler) Submit(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req submitReviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	rv, err := h.uc.Submit(c.Context(), userID, usecase.SubmitReviewInput{
		SwapID:  swapID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewReviewResponse(rv))
}

func (h *ReviewHandler) Mine(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	swapID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	rv, found, err := h.uc.FindMine(c.Context(), userID, swapID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := dto.MyReviewResponse{Reviewed: found}
	if found {
		r := dto.NewReviewResponse(rv)
		res.Review = &r
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ReviewHandler) Received(c fiber.Ctx) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	items, sum, err := h.uc.ListForUser(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReceivedReviewsResponse(items, sum))
}
