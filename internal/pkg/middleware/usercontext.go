package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mreichel/MarketStall/internal/pkg/session"
	"github.com/mreichel/MarketStall/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes session handling so controllers only ever read
// usercontext.GetUserContext(c).
func UserContextMiddleware(c *fiber.Ctx) error {
	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: treat as anonymous
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn:   false,
			IsSuperAdmin: false,
		})
		return c.Next()
	}

	// Get user ID from session
	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn:   false,
			IsSuperAdmin: false,
		})
		return c.Next()
	}

	email, _ := sess.Get(usercontext.KeyUserEmail).(string)
	isSuperAdmin, _ := sess.Get(usercontext.KeyIsSuperAdmin).(bool)

	c.Locals("USER_CONTEXT", usercontext.UserContext{
		UserID:       userID.(uint),
		Email:        email,
		IsLoggedIn:   true,
		IsSuperAdmin: isSuperAdmin,
	})

	return c.Next()
}
