package access

import (
	"context"

	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
)

// Principal is the authenticated caller as resolved for one request.
type Principal struct {
	ID       userdomain.ID
	Username string
	Roles    userdomain.RoleSet
}

func (p Principal) HasRole(role userdomain.Role) bool {
	return p.Roles.Has(role)
}

func principalFromUser(u userdomain.User) Principal {
	return Principal{ID: u.ID, Username: u.Username, Roles: u.Roles}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
