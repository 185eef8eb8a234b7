package utils

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	UserEmailKey   contextKey = "email"
	UserRoleKey    contextKey = "role"
	CartSessionKey contextKey = "cart_session"
)

const RoleAdmin = "admin"
