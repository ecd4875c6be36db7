package v1

import (
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Swap    *handler.SwapHandler
	Message *handler.MessageHandler
	Review  *handler.ReviewHandler
	Profile *handler.ProfileHandler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	authGroup := r.Group("/auth")
	h.Auth.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	profiles := protected.Group("/profiles")
	h.Profile.RegisterRoutes(profiles)
	h.Review.RegisterProfileRoutes(profiles)
	protected.Get("/feed", h.Profile.Feed)

	swaps := protected.Group("/swaps")
	h.Swap.RegisterRoutes(swaps)
	h.Message.RegisterRoutes(swaps)
	h.Review.RegisterSwapRoutes(swaps)

	protected.Get("/conversations", h.Swap.ListConversations)
}
