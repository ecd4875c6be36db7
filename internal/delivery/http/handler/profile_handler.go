package handler

import (
	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	profiles usecase.ProfileUsecase
	feed     usecase.FeedUsecase
}

type updateProfileRequest struct {
	Title          *string `json:"title"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	PortfolioURL   *string `json:"portfolio_url"`
	AvatarURL      *string `json:"avatar_url"`
	CoverURL       *string `json:"cover_url"`
	SkillsOffering *string `json:"skills_offering"`
	SkillsSeeking  *string `json:"skills_seeking"`
}

func (r updateProfileRequest) empty() bool {
	return r.Title == nil && r.Bio == nil && r.Location == nil && r.PortfolioURL == nil &&
		r.AvatarURL == nil && r.CoverURL == nil && r.SkillsOffering == nil && r.SkillsSeeking == nil
}

func NewProfileHandler(profiles usecase.ProfileUsecase, feed usecase.FeedUsecase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, feed: feed}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Get("/:id", h.Get)
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	view, err := h.profiles.Get(c.Context(), userID, userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(view))
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	viewerID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.profiles.Get(c.Context(), viewerID, userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(view))
}

func (h *ProfileHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.empty() {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	view, err := h.profiles.Update(c.Context(), userID, usecase.UpdateProfileInput{
		Title:        req.Title,
		Bio:          req.Bio,
		Location:     req.Location,
		PortfolioURL: req.PortfolioURL,
		AvatarURL:    req.AvatarURL,
		CoverURL:     req.CoverURL,
		Offering:     req.SkillsOffering,
		Seeking:      req.SkillsSeeking,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(view))
}

func (h *ProfileHandler) Feed(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	items, err := h.feed.Feed(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewFeedResponse(items))
}
