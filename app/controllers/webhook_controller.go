package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mreichel/MarketStall/app/repository"
	"github.com/mreichel/MarketStall/internal/pkg/env"
	"github.com/mreichel/MarketStall/internal/pkg/payments"
	"github.com/mreichel/MarketStall/internal/pkg/webhook"
)

const webhookTimeout = 15 * time.Second

// HandleStripeWebhook processes inbound Stripe events. 400 means the
// signature did not verify, 500 means processing failed and Stripe should
// redeliver, 200 means the event was handled or needs no action.
func HandleStripeWebhook(c *fiber.Ctx) error {
	// Copy the raw bytes before anything else touches the body; the
	// signature covers these exact bytes.
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")

	proc := webhook.NewProcessor(
		repository.GetGlobalRepositories(),
		payments.GetClient(),
		env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	)

	event, err := proc.VerifyAndParse(rawBody, signature)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_signature",
			"message": "webhook signature verification failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	if err := proc.Process(ctx, event); err != nil {
		log.Printf("webhook: processing event %s failed: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "processing_failed",
			"message": "webhook handler failed",
		})
	}

	return c.JSON(fiber.Map{"message": "Received"})
}

// HandleStripeWebhookProbe is an unauthenticated liveness probe on the
// webhook path.
func HandleStripeWebhookProbe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "Webhook endpoint is working",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
