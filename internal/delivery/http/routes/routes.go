package routes

import (
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	v1 "skill-swap/internal/delivery/http/routes/v1"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	api    v1.Handlers
	ws     *ws.Handler
	authMw *middleware.AuthMiddleware
}

func NewRegistry(health *handler.HealthHandler, api v1.Handlers, wsHandler *ws.Handler, authMw *middleware.AuthMiddleware) *Registry {
	return &Registry{health: health, api: api, ws: wsHandler, authMw: authMw}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerWS(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.api, r.authMw)
}

// The websocket route authenticates from the query string itself.
func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		r.ws.RegisterRoutes(app.Group("/ws"))
	}
}
