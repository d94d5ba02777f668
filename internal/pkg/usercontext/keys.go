package usercontext

// Locals/session keys shared between the auth controller and middlewares
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUsername      = "username"
	KeyIsAdmin       = "is_admin"
	KeyFromProtected = "from_protected"
)
