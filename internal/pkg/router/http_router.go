package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mreichel/MarketStall/app/controllers"
	"github.com/mreichel/MarketStall/internal/pkg/middleware"
	"github.com/mreichel/MarketStall/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Stripe webhook endpoint. Registered outside the rate-limited /api
	// group: Stripe retries on non-2xx and must never hit the limiter.
	app.Post("/api/stripe/webhooks", controllers.HandleStripeWebhook)
	app.Get("/api/stripe/webhooks", controllers.HandleStripeWebhookProbe)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
