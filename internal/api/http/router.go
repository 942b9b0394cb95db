package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventhub/event-service/internal/api/http/handlers"
	"github.com/eventhub/event-service/internal/auth"
	"github.com/eventhub/event-service/internal/observability"
	"github.com/eventhub/event-service/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Events         *handlers.EventsHandler
	Registrations  *handlers.RegistrationsHandler
	Likes          *handlers.LikesHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.CategoriesHandler
	Promotions     *handlers.PromotionsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *auth.LoginLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Every /api group except auth requires a
// session; sign-up, login and logout are public.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	if cfg.LoginLimiter != nil {
		authGroup.Post("/login", cfg.LoginLimiter.Middleware(), cfg.Auth.Login)
	} else {
		authGroup.Post("/login", cfg.Auth.Login)
	}
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/validate-user", cfg.AuthMiddleware.Handle, cfg.Auth.ValidateUser)

	events := api.Group("/events", cfg.AuthMiddleware.Handle)
	events.Get("/", cfg.Events.List)
	events.Post("/", cfg.Events.Create)
	events.Get("/:id", cfg.Events.Get)
	events.Patch("/:id", cfg.Events.Update)
	events.Get("/:id/stats", cfg.Events.Stats)
	events.Post("/:id/like", cfg.Likes.Like)
	events.Delete("/:id/like", cfg.Likes.Unlike)
	events.Post("/:id/register", cfg.Registrations.Register)
	events.Delete("/:id/register", cfg.Registrations.Cancel)
	events.Patch("/:id/register", cfg.Registrations.Manage)
	events.Get("/:id/registrations", cfg.Registrations.List)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.Require(policy.ResourceUser, policy.ActionList), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Patch("/:id/suspend", auth.Require(policy.ResourceUser, policy.ActionSuspend), cfg.Users.Suspend)
	users.Patch("/:id/activate", auth.Require(policy.ResourceUser, policy.ActionActivate), cfg.Users.Activate)
	users.Get("/:id/organizer-stats", cfg.Users.OrganizerStats)

	categories := api.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Get("/", cfg.Categories.List)
	categories.Post("/", auth.Require(policy.ResourceCategory, policy.ActionCreate), cfg.Categories.Create)

	promotions := api.Group("/promotion-requests", cfg.AuthMiddleware.Handle)
	promotions.Get("/", auth.Require(policy.ResourcePromotion, policy.ActionList), cfg.Promotions.List)
	promotions.Post("/", cfg.Promotions.Request)
	promotions.Get("/:userId", cfg.Promotions.Pending)
	promotions.Patch("/:userId/accept", auth.Require(policy.ResourcePromotion, policy.ActionAccept), cfg.Promotions.Accept)
	promotions.Patch("/:userId/reject", auth.Require(policy.ResourcePromotion, policy.ActionReject), cfg.Promotions.Reject)

	stats := api.Group("/stats", cfg.AuthMiddleware.Handle)
	stats.Get("/platform", auth.Require(policy.ResourceStats, policy.ActionPlatform), cfg.Stats.Platform)
}
