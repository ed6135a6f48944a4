package ctxutil

import "context"

type principalKey struct{}

// Role names the kind of account a bearer token was issued to.
type Role string

const (
	RoleStudent Role = "student"
	RoleShop    Role = "shop"
	RoleAdmin   Role = "admin"
)

// Principal is the identity carried by a verified bearer token.
type Principal struct {
	Role Role
	ID   int64
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}

// IDFor returns the principal id when the context carries a principal of the given role,
// otherwise fallback.
func IDFor(ctx context.Context, role Role, fallback int64) int64 {
	if p := GetPrincipal(ctx); p != nil && p.Role == role && p.ID > 0 {
		return p.ID
	}
	return fallback
}
