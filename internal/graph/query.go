package graph

import (
	"context"

	"github.com/graphql-go/graphql"
)

func (r *Resolver) queryFields(t *types) graphql.Fields {
	return graphql.Fields{
		"me": r.op("me", t.user, nil, func(ctx context.Context, _ args) (interface{}, error) {
			return r.Identity.GetUser(ctx, callerID(ctx))
		}),
		"allUsers": r.op("allUsers", listOf(t.user), nil, func(ctx context.Context, _ args) (interface{}, error) {
			return r.Identity.ListUsers(ctx)
		}),
		"user": r.op("user", t.user, graphql.FieldConfigArgument{"id": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			return r.Identity.GetUser(ctx, id)
		}),

		"allRestaurants": r.op("allRestaurants", listOf(t.restaurant), nil, func(ctx context.Context, _ args) (interface{}, error) {
			return r.Catalog.ListRestaurants(ctx)
		}),
		"restaurant": r.op("restaurant", t.restaurant, graphql.FieldConfigArgument{"id": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			return r.Catalog.GetRestaurant(ctx, id)
		}),
		"allCategories": r.op("allCategories", listOf(t.restaurantCategory), nil, func(ctx context.Context, _ args) (interface{}, error) {
			return r.Catalog.ListRestaurantCategories(ctx)
		}),
		"allMenuItemCategories": r.op("allMenuItemCategories", listOf(t.menuItemCategory), nil, func(ctx context.Context, _ args) (interface{}, error) {
			return r.Catalog.ListMenuItemCategories(ctx)
		}),
		"allMenuItems": r.op("allMenuItems", listOf(t.menuItem), graphql.FieldConfigArgument{
			"restaurantId": optArg(graphql.ID),
		}, func(ctx context.Context, a args) (interface{}, error) {
			restaurantID, err := a.optID("restaurantId")
			if err != nil {
				return nil, err
			}
			return r.Catalog.ListMenuItems(ctx, restaurantID)
		}),
		"menuItem": r.op("menuItem", t.menuItem, graphql.FieldConfigArgument{"id": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			return r.Catalog.GetMenuItem(ctx, id)
		}),
		"searchMenuItems": r.op("searchMenuItems", t.search, graphql.FieldConfigArgument{
			"query": reqArg(graphql.String),
			"page":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
			"size":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
		}, func(ctx context.Context, a args) (interface{}, error) {
			res, err := r.Catalog.SearchMenuItems(ctx, a.str("query"), a.integer("page"), a.integer("size"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"total": res.Total,
				"page":  res.Page,
				"size":  res.Size,
				"items": res.Items,
			}, nil
		}),

		"allOrders": r.op("allOrders", listOf(t.order), nil, func(ctx context.Context, _ args) (interface{}, error) {
			return r.Orders.ListOrders(ctx, callerID(ctx))
		}),
		"order": r.op("order", t.order, graphql.FieldConfigArgument{"id": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			return r.Orders.GetOrder(ctx, callerID(ctx), id)
		}),
		"userCart": r.op("userCart", t.cart, nil, func(ctx context.Context, _ args) (interface{}, error) {
			return r.Carts.GetCart(ctx, callerID(ctx))
		}),
	}
}
