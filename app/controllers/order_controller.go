package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mreichel/MarketStall/app/repository"
	"github.com/mreichel/MarketStall/internal/pkg/access"
	"github.com/mreichel/MarketStall/internal/pkg/usercontext"
)

// HandleListOrders returns orders visible to the acting principal. The
// policy's row filter is pushed into the query, so a regular buyer can never
// page through someone else's orders.
func HandleListOrders(c *fiber.Ctx) error {
	principal := usercontext.GetUserContext(c).Principal()
	filter := access.ReadOrders(principal)
	if filter.Denied {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "not allowed to read orders",
		})
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	orders, err := repository.GetGlobalFactory().GetOrderRepository().List(filter, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not list orders",
		})
	}

	return c.JSON(fiber.Map{"orders": orders})
}

// HandleGetOrder returns a single order if the principal may see it.
func HandleGetOrder(c *fiber.Ctx) error {
	principal := usercontext.GetUserContext(c).Principal()
	filter := access.ReadOrders(principal)
	if filter.Denied {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "not allowed to read orders",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "invalid order id",
		})
	}

	order, err := repository.GetGlobalFactory().GetOrderRepository().GetByID(filter, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A foreign order and a missing order look the same on purpose.
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load order",
		})
	}

	return c.JSON(order)
}

type orderUpdateRequest struct {
	Name string `json:"name"`
}

// HandleUpdateOrder applies a superadmin correction to an order's name
// snapshot. Orders are otherwise immutable after creation.
func HandleUpdateOrder(c *fiber.Ctx) error {
	principal := usercontext.GetUserContext(c).Principal()
	if !access.CanUpdateOrder(principal) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "super-admin required",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "invalid order id",
		})
	}

	var req orderUpdateRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "name is required",
		})
	}

	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := orderRepo.GetByID(access.OrderFilter{All: true}, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load order",
		})
	}

	order.Name = req.Name
	if err := orderRepo.Update(order); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not update order",
		})
	}

	return c.JSON(order)
}

// HandleDeleteOrder removes an order. Superadmin only.
func HandleDeleteOrder(c *fiber.Ctx) error {
	principal := usercontext.GetUserContext(c).Principal()
	if !access.CanDeleteOrder(principal) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "super-admin required",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_input",
			"message": "invalid order id",
		})
	}

	if err := repository.GetGlobalFactory().GetOrderRepository().Delete(uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not delete order",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}
