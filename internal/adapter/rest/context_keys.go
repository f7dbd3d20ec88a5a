package rest

import "context"

// ContextKey is the type of request-scoped values set by the middleware.
type ContextKey string

const (
	UserIDCtxKey    = ContextKey("user_id")
	UserRoleCtxKey  = ContextKey("user_role")
	RequestIDCtxKey = ContextKey("request_id")
)

func userID(ctx context.Context) string {
	v, _ := ctx.Value(UserIDCtxKey).(string)
	return v
}

func userRole(ctx context.Context) string {
	v, _ := ctx.Value(UserRoleCtxKey).(string)
	return v
}
