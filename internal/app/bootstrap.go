package app

import (
	"context"
	"fmt"
	"strings"

	"skill-swap/internal/config"
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/delivery/http/routes"
	v1 "skill-swap/internal/delivery/http/routes/v1"
	"skill-swap/internal/repository"
	"skill-swap/internal/usecase"
	"skill-swap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap wires the HTTP and websocket surface. Background workers stop
// when ctx is canceled; the returned cleanup closes the connections.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	swaps := repository.NewPostgresSwapRepository(c.DB)
	profiles := repository.NewPostgresProfileRepository(c.DB)
	reviews := repository.NewPostgresReviewRepository(c.DB)
	messages := repository.NewPostgresMessageRepository(c.DB)
	users := repository.NewPostgresUserRepository(c.DB)

	hub := ws.NewHub(c.Logger)
	relay := ws.NewRelay(hub, c.Cache, c.Logger)
	go hub.Run(ctx)
	go func() {
		if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
			c.Logger.Printf("WS relay stopped | error=%v", err)
		}
	}()

	swapUC := usecase.NewSwapUsecase(swaps, c.Cache, relay, c.Logger)
	reviewUC := usecase.NewReviewUsecase(swaps, reviews, c.Logger)
	messageUC := usecase.NewMessageUsecase(swaps, messages, relay, c.Logger)
	profileUC := usecase.NewProfileUsecase(profiles, swaps, c.Cache, cfg.Redis.TTL, c.Logger)
	feedUC := usecase.NewFeedUsecase(profiles)
	authUC := usecase.NewAuthUsecase(users, c.JWT, cfg.Swap.StartingTimeBalance)

	api := v1.Handlers{
		Auth:    handler.NewAuthHandler(authUC),
		Swap:    handler.NewSwapHandler(swapUC),
		Message: handler.NewMessageHandler(messageUC),
		Review:  handler.NewReviewHandler(reviewUC),
		Profile: handler.NewProfileHandler(profileUC, feedUC),
	}
	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		api,
		ws.NewHandler(hub, c.JWT, swapUC, c.Logger),
		middleware.NewAuthMiddleware(c.JWT),
	)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, c)
	registry.Register(f)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
