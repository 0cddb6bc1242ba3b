package authz

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/models"
)

// Requirement describes who may run an operation. With Public unset and
// AnyOf empty any authenticated caller passes.
type Requirement struct {
	Public bool
	AnyOf  models.Roles
}

func Public() Requirement { return Requirement{Public: true} }

func Authenticated() Requirement { return Requirement{} }

func AnyOf(roles ...models.Roles) Requirement {
	var set models.Roles
	for _, r := range roles {
		set |= r
	}
	return Requirement{AnyOf: set}
}

type Policy struct {
	rules map[string]Requirement
}

func NewPolicy(rules map[string]Requirement) *Policy {
	p := &Policy{rules: make(map[string]Requirement, len(rules))}
	for op, r := range rules {
		p.rules[op] = r
	}
	return p
}

func (p *Policy) Requirement(op string) (Requirement, bool) {
	r, ok := p.rules[op]
	return r, ok
}

// Authorize runs before any store access. Unknown operations are denied.
func (p *Policy) Authorize(ctx context.Context, op string) error {
	req, ok := p.rules[op]
	if !ok {
		return fmt.Errorf("operation %q has no policy: %w", op, apperr.ErrPermissionDenied)
	}
	if req.Public {
		return nil
	}

	caller, ok := CallerFrom(ctx)
	if !ok || !caller.Active {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotAuthenticated)
	}
	if caller.Roles.Has(models.RoleAdmin) {
		return nil
	}
	if req.AnyOf == models.NoRoles || caller.Roles.Intersects(req.AnyOf) {
		return nil
	}
	return fmt.Errorf("%s requires %s: %w", op, req.AnyOf, apperr.ErrPermissionDenied)
}

func DefaultPolicy() *Policy {
	admin := AnyOf(models.RoleAdmin)
	staff := AnyOf(models.RoleStaff, models.RoleAdmin)
	customer := AnyOf(models.RoleCustomer)
	owner := AnyOf(models.RoleCustomer, models.RoleStaff)

	return NewPolicy(map[string]Requirement{
		"signIn":               Public(),
		"register":             Public(),
		"refreshToken":         Public(),
		"requestPasswordReset": Public(),
		"resetPassword":        Public(),

		"me":      Authenticated(),
		"signOut": Authenticated(),

		"allUsers":   admin,
		"user":       AnyOf(models.RoleAdmin, models.RoleStaff),
		"createUser": admin,
		"updateUser": admin,
		"deleteUser": admin,

		"allRestaurants":        Public(),
		"restaurant":            Public(),
		"allCategories":         Public(),
		"allMenuItemCategories": Public(),
		"allMenuItems":          Public(),
		"menuItem":              Public(),
		"searchMenuItems":       Public(),

		"createRestaurant":       staff,
		"updateRestaurant":       admin,
		"deleteRestaurant":       admin,
		"createCategory":         staff,
		"updateCategory":         admin,
		"deleteCategory":         admin,
		"createMenuItemCategory": staff,
		"updateMenuItemCategory": admin,
		"deleteMenuItemCategory": admin,
		"createMenuItem":         staff,
		"updateMenuItem":         staff,
		"deleteMenuItem":         admin,
		"uploadMenuItemImage":    staff,

		"allOrders":      customer,
		"userCart":       customer,
		"createOrder":    customer,
		"addCartItem":    customer,
		"updateCartItem": customer,
		"deleteCartItem": customer,
		"clearCart":      customer,
		"checkoutCart":   customer,

		"order":           owner,
		"updateOrder":     owner,
		"deleteOrder":     owner,
		"createOrderItem": owner,
		"updateOrderItem": owner,
		"deleteOrderItem": owner,
	})
}
