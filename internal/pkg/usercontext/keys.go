package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserID       = "user_id"
	KeyUserEmail    = "user_email"
	KeyIsSuperAdmin = "is_super_admin"
	KeyLoggedIn     = "logged_in"
)
