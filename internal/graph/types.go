package graph

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/Skotchmaster/foodmarket/internal/models"
)

// source unwraps the parent value of a field, which graphql-go hands over
// either as a pointer or as a value taken from a slice.
func source[T any](v interface{}) (*T, bool) {
	switch s := v.(type) {
	case *T:
		return s, s != nil
	case T:
		return &s, true
	}
	return nil, false
}

func field[T any](typ graphql.Output, get func(*T) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := source[T](p.Source)
			if !ok {
				return nil, nil
			}
			return get(src), nil
		},
	}
}

// related resolves a field that needs a lookup; failures are presented
// like top-level errors.
func related[T any](typ graphql.Output, name string, load func(context.Context, *T) (interface{}, error)) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			src, ok := source[T](p.Source)
			if !ok {
				return nil, nil
			}
			out, err := load(p.Context, src)
			if err != nil {
				return nil, present(p.Context, name, err)
			}
			return out, nil
		},
	}
}

func nonNull(t graphql.Type) *graphql.NonNull { return graphql.NewNonNull(t) }

func listOf(t graphql.Type) *graphql.NonNull {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

func date(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

type types struct {
	user               *graphql.Object
	restaurantCategory *graphql.Object
	menuItemCategory   *graphql.Object
	restaurant         *graphql.Object
	menuItem           *graphql.Object
	cart               *graphql.Object
	cartItem           *graphql.Object
	order              *graphql.Object
	orderItem          *graphql.Object
	auth               *graphql.Object
	search             *graphql.Object
	success            *graphql.Object
	clearCart          *graphql.Object
	resetChannel       *graphql.Enum
}

func (r *Resolver) newTypes() *types {
	t := &types{}

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":         field(nonNull(graphql.ID), func(u *models.User) interface{} { return u.ID }),
			"firstName":  field(nonNull(graphql.String), func(u *models.User) interface{} { return u.FirstName }),
			"lastName":   field(nonNull(graphql.String), func(u *models.User) interface{} { return u.LastName }),
			"email":      field(nonNull(graphql.String), func(u *models.User) interface{} { return u.Email }),
			"phone":      field(graphql.String, func(u *models.User) interface{} { return u.Phone }),
			"birthDate":  field(graphql.String, func(u *models.User) interface{} { return date(u.BirthDate) }),
			"isAdmin":    field(nonNull(graphql.Boolean), func(u *models.User) interface{} { return u.Roles.Has(models.RoleAdmin) }),
			"isStaff":    field(nonNull(graphql.Boolean), func(u *models.User) interface{} { return u.Roles.Has(models.RoleStaff) }),
			"isCustomer": field(nonNull(graphql.Boolean), func(u *models.User) interface{} { return u.Roles.Has(models.RoleCustomer) }),
			"isActive":   field(nonNull(graphql.Boolean), func(u *models.User) interface{} { return u.IsActive }),
			"roles":      field(listOf(graphql.String), func(u *models.User) interface{} { return u.Roles.Names() }),
			"createdAt":  field(graphql.DateTime, func(u *models.User) interface{} { return u.CreatedAt }),
		},
	})

	t.restaurantCategory = graphql.NewObject(graphql.ObjectConfig{
		Name: "RestaurantCategory",
		Fields: graphql.Fields{
			"id":   field(nonNull(graphql.ID), func(c *models.RestaurantCategory) interface{} { return c.ID }),
			"name": field(nonNull(graphql.String), func(c *models.RestaurantCategory) interface{} { return c.Name }),
		},
	})

	t.menuItemCategory = graphql.NewObject(graphql.ObjectConfig{
		Name: "MenuItemCategory",
		Fields: graphql.Fields{
			"id":   field(nonNull(graphql.ID), func(c *models.MenuItemCategory) interface{} { return c.ID }),
			"name": field(nonNull(graphql.String), func(c *models.MenuItemCategory) interface{} { return c.Name }),
		},
	})

	t.restaurant = graphql.NewObject(graphql.ObjectConfig{
		Name: "Restaurant",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":      field(nonNull(graphql.ID), func(x *models.Restaurant) interface{} { return x.ID }),
				"name":    field(nonNull(graphql.String), func(x *models.Restaurant) interface{} { return x.Name }),
				"address": field(nonNull(graphql.String), func(x *models.Restaurant) interface{} { return x.Address }),
				"phone":   field(nonNull(graphql.String), func(x *models.Restaurant) interface{} { return x.Phone }),
				"category": related(t.restaurantCategory, "restaurant.category", func(ctx context.Context, x *models.Restaurant) (interface{}, error) {
					if x.CategoryID == nil {
						return nil, nil
					}
					return r.Catalog.GetRestaurantCategory(ctx, *x.CategoryID)
				}),
				"menuItems": related(listOf(t.menuItem), "restaurant.menuItems", func(ctx context.Context, x *models.Restaurant) (interface{}, error) {
					return r.Catalog.ListMenuItems(ctx, &x.ID)
				}),
				"createdAt": field(graphql.DateTime, func(x *models.Restaurant) interface{} { return x.CreatedAt }),
			}
		}),
	})

	t.menuItem = graphql.NewObject(graphql.ObjectConfig{
		Name: "MenuItem",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":          field(nonNull(graphql.ID), func(m *models.MenuItem) interface{} { return m.ID }),
				"name":        field(nonNull(graphql.String), func(m *models.MenuItem) interface{} { return m.Name }),
				"description": field(graphql.String, func(m *models.MenuItem) interface{} { return m.Description }),
				"price":       field(nonNull(graphql.Float), func(m *models.MenuItem) interface{} { return m.Price.Float() }),
				"restaurant": related(t.restaurant, "menuItem.restaurant", func(ctx context.Context, m *models.MenuItem) (interface{}, error) {
					return r.Catalog.GetRestaurant(ctx, m.RestaurantID)
				}),
				"category": related(t.menuItemCategory, "menuItem.category", func(ctx context.Context, m *models.MenuItem) (interface{}, error) {
					if m.CategoryID == nil {
						return nil, nil
					}
					return r.Catalog.GetMenuItemCategory(ctx, *m.CategoryID)
				}),
				"image": field(graphql.String, func(m *models.MenuItem) interface{} {
					if m.ImageKey == "" {
						return nil
					}
					return r.Catalog.ImageURL(m)
				}),
			}
		}),
	})

	t.cartItem = graphql.NewObject(graphql.ObjectConfig{
		Name: "CartItem",
		Fields: graphql.Fields{
			"id": field(nonNull(graphql.ID), func(i *models.CartItem) interface{} { return i.ID }),
			"product": related(nonNull(t.menuItem), "cartItem.product", func(ctx context.Context, i *models.CartItem) (interface{}, error) {
				if i.Product.ID != 0 {
					return &i.Product, nil
				}
				return r.Catalog.GetMenuItem(ctx, i.ProductID)
			}),
			"quantity":  field(nonNull(graphql.Int), func(i *models.CartItem) interface{} { return i.Quantity }),
			"price":     field(nonNull(graphql.Float), func(i *models.CartItem) interface{} { return i.Price.Float() }),
			"createdAt": field(graphql.DateTime, func(i *models.CartItem) interface{} { return i.CreatedAt }),
			"updatedAt": field(graphql.DateTime, func(i *models.CartItem) interface{} { return i.UpdatedAt }),
		},
	})

	t.cart = graphql.NewObject(graphql.ObjectConfig{
		Name: "Cart",
		Fields: graphql.Fields{
			"id":    field(nonNull(graphql.ID), func(c *models.Cart) interface{} { return c.ID }),
			"items": field(listOf(t.cartItem), func(c *models.Cart) interface{} { return c.Items }),
			"total": field(nonNull(graphql.Float), func(c *models.Cart) interface{} {
				var sum models.Money
				for _, it := range c.Items {
					sum += it.Price
				}
				return sum.Float()
			}),
			"createdAt": field(graphql.DateTime, func(c *models.Cart) interface{} { return c.CreatedAt }),
			"updatedAt": field(graphql.DateTime, func(c *models.Cart) interface{} { return c.UpdatedAt }),
		},
	})

	t.orderItem = graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: graphql.Fields{
			"id":          field(nonNull(graphql.ID), func(i *models.OrderItem) interface{} { return i.ID }),
			"orderId":     field(nonNull(graphql.ID), func(i *models.OrderItem) interface{} { return i.OrderID }),
			"productName": field(nonNull(graphql.String), func(i *models.OrderItem) interface{} { return i.ProductName }),
			"quantity":    field(nonNull(graphql.Int), func(i *models.OrderItem) interface{} { return i.Quantity }),
			"price":       field(nonNull(graphql.Float), func(i *models.OrderItem) interface{} { return i.Price.Float() }),
			"createdAt":   field(graphql.DateTime, func(i *models.OrderItem) interface{} { return i.CreatedAt }),
			"updatedAt":   field(graphql.DateTime, func(i *models.OrderItem) interface{} { return i.UpdatedAt }),
		},
	})

	t.order = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":         field(nonNull(graphql.ID), func(o *models.Order) interface{} { return o.ID }),
			"totalPrice": field(nonNull(graphql.Float), func(o *models.Order) interface{} { return o.TotalPrice.Float() }),
			"items":      field(listOf(t.orderItem), func(o *models.Order) interface{} { return o.Items }),
			"createdAt":  field(graphql.DateTime, func(o *models.Order) interface{} { return o.CreatedAt }),
			"updatedAt":  field(graphql.DateTime, func(o *models.Order) interface{} { return o.UpdatedAt }),
		},
	})

	t.auth = graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"user":             &graphql.Field{Type: nonNull(t.user)},
			"token":            &graphql.Field{Type: nonNull(graphql.String)},
			"refreshToken":     &graphql.Field{Type: nonNull(graphql.String)},
			"expiresAt":        &graphql.Field{Type: nonNull(graphql.DateTime)},
			"refreshExpiresAt": &graphql.Field{Type: nonNull(graphql.DateTime)},
		},
	})

	t.search = graphql.NewObject(graphql.ObjectConfig{
		Name: "MenuItemSearchResult",
		Fields: graphql.Fields{
			"total": &graphql.Field{Type: nonNull(graphql.Int)},
			"page":  &graphql.Field{Type: nonNull(graphql.Int)},
			"size":  &graphql.Field{Type: nonNull(graphql.Int)},
			"items": &graphql.Field{Type: listOf(t.menuItem)},
		},
	})

	t.success = graphql.NewObject(graphql.ObjectConfig{
		Name: "SuccessPayload",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: nonNull(graphql.Boolean)},
		},
	})

	t.clearCart = graphql.NewObject(graphql.ObjectConfig{
		Name: "ClearCartPayload",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: nonNull(graphql.Boolean)},
			"removed": &graphql.Field{Type: nonNull(graphql.Int)},
		},
	})

	t.resetChannel = graphql.NewEnum(graphql.EnumConfig{
		Name: "ResetChannel",
		Values: graphql.EnumValueConfigMap{
			"EMAIL": &graphql.EnumValueConfig{Value: string(models.ResetByEmail)},
			"PHONE": &graphql.EnumValueConfig{Value: string(models.ResetByPhone)},
		},
	})

	return t
}

// payload builds a single-field mutation result type such as
// CreateOrderPayload{order}.
func payload(name, key string, typ graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   name,
		Fields: graphql.Fields{key: &graphql.Field{Type: typ}},
	})
}
