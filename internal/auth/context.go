package auth

import "context"

type contextKey string

const userContextKey contextKey = "userContext"

// UserContext carries the authenticated caller through the request context.
type UserContext struct {
	UserID      uint
	RoleID      uint
	Email       string
	DisplayName string
	// IsService marks API-key callers, which bypass role resolution
	IsService bool
}

// WithUserContext stores the user context on a context
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// GetUserContext retrieves the user context, or nil when unauthenticated
func GetUserContext(ctx context.Context) *UserContext {
	uc, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok {
		return nil
	}
	return uc
}

// UserID returns the authenticated user's id, or 0 when unauthenticated.
func UserID(ctx context.Context) uint {
	if uc := GetUserContext(ctx); uc != nil {
		return uc.UserID
	}
	return 0
}
