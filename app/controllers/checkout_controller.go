package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mreichel/MarketStall/app/repository"
	"github.com/mreichel/MarketStall/internal/pkg/checkout"
	"github.com/mreichel/MarketStall/internal/pkg/payments"
	"github.com/mreichel/MarketStall/internal/pkg/usercontext"
)

const checkoutTimeout = 20 * time.Second

func checkoutService() *checkout.Service {
	return checkout.NewService(
		repository.GetGlobalRepositories(),
		payments.GetClient(),
		checkout.ConfigFromEnv(),
	)
}

// HandlePurchase creates a checkout session for the authenticated buyer and
// returns the Stripe redirect URL.
func HandlePurchase(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var in checkout.PurchaseInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "invalid request body",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkoutTimeout)
	defer cancel()

	redirect, err := checkoutService().Purchase(ctx, userCtx.UserID, in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(redirect)
}

// HandleVerify issues a connected-account onboarding link for the
// authenticated seller.
func HandleVerify(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	ctx, cancel := context.WithTimeout(context.Background(), checkoutTimeout)
	defer cancel()

	redirect, err := checkoutService().Verify(ctx, userCtx.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(redirect)
}

// HandleGetProducts resolves products by id and returns them with the summed
// price. Public endpoint; ids arrive comma-separated in the query string.
func HandleGetProducts(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("ids"))
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkoutTimeout)
	defer cancel()

	list, err := checkoutService().GetProducts(ctx, ids)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(list)
}
