package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/mreichel/MarketStall/app/controllers"
	"github.com/mreichel/MarketStall/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", controllers.HandleLogout)

	co := v1.Group("/checkout")
	co.Get("/products", controllers.HandleGetProducts)
	co.Post("/purchase", middleware.RequireAPISessionAuth, controllers.HandlePurchase)
	co.Post("/verify", middleware.RequireAPISessionAuth, controllers.HandleVerify)

	orders := v1.Group("/orders", middleware.RequireAPISessionAuth)
	orders.Get("/", controllers.HandleListOrders)
	orders.Get("/:id", controllers.HandleGetOrder)
	orders.Patch("/:id", middleware.RequireSuperAdmin, controllers.HandleUpdateOrder)
	orders.Delete("/:id", middleware.RequireSuperAdmin, controllers.HandleDeleteOrder)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
