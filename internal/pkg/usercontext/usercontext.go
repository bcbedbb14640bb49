package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mreichel/MarketStall/internal/pkg/access"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	IsLoggedIn   bool   `json:"is_logged_in"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsSuperAdmin: false}
}

// Principal converts the request context into an access-control principal.
func (u UserContext) Principal() access.Principal {
	return access.Principal{
		UserID:        u.UserID,
		Authenticated: u.IsLoggedIn,
		SuperAdmin:    u.IsSuperAdmin,
	}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
