package authz

import (
	"context"

	"github.com/Skotchmaster/foodmarket/internal/models"
)

// Caller is the authenticated principal of a request.
type Caller struct {
	UserID uint
	Roles  models.Roles
	Active bool
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	if !ok || c.UserID == 0 {
		return Caller{}, false
	}
	return c, true
}

func CallerFromUser(u *models.User) Caller {
	return Caller{UserID: u.ID, Roles: u.Roles, Active: u.IsActive}
}
