package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/Skotchmaster/foodmarket/internal/service"
)

func (r *Resolver) catalogMutations(t *types) graphql.Fields {
	restaurantPayload := func(name string) *graphql.Object { return payload(name, "restaurant", t.restaurant) }
	categoryPayload := func(name string) *graphql.Object { return payload(name, "category", t.restaurantCategory) }
	itemCategoryPayload := func(name string) *graphql.Object { return payload(name, "category", t.menuItemCategory) }
	menuItemPayload := func(name string) *graphql.Object { return payload(name, "menuItem", t.menuItem) }

	byID := graphql.FieldConfigArgument{"id": idArg()}

	return graphql.Fields{
		"createRestaurant": r.op("createRestaurant", restaurantPayload("CreateRestaurantPayload"), graphql.FieldConfigArgument{
			"name":       reqArg(graphql.String),
			"address":    reqArg(graphql.String),
			"phone":      reqArg(graphql.String),
			"categoryId": optArg(graphql.ID),
		}, func(ctx context.Context, a args) (interface{}, error) {
			categoryID, err := a.optID("categoryId")
			if err != nil {
				return nil, err
			}
			rest, err := r.Catalog.CreateRestaurant(ctx, service.RestaurantInput{
				Name:       a.str("name"),
				Address:    a.str("address"),
				Phone:      a.str("phone"),
				CategoryID: categoryID,
			})
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"restaurant": rest}, nil
		}),

		"updateRestaurant": r.op("updateRestaurant", restaurantPayload("UpdateRestaurantPayload"), graphql.FieldConfigArgument{
			"id":         idArg(),
			"name":       optArg(graphql.String),
			"address":    optArg(graphql.String),
			"phone":      optArg(graphql.String),
			"categoryId": optArg(graphql.ID),
		}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			categoryID, err := a.optID("categoryId")
			if err != nil {
				return nil, err
			}
			rest, err := r.Catalog.UpdateRestaurant(ctx, id, service.RestaurantPatch{
				Name:       a.nonEmptyStr("name"),
				Address:    a.nonEmptyStr("address"),
				Phone:      a.nonEmptyStr("phone"),
				CategoryID: categoryID,
			})
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"restaurant": rest}, nil
		}),

		"deleteRestaurant": r.op("deleteRestaurant", t.success, byID, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			if err := r.Catalog.DeleteRestaurant(ctx, id); err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"createCategory": r.op("createCategory", categoryPayload("CreateCategoryPayload"), graphql.FieldConfigArgument{
			"name": reqArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			c, err := r.Catalog.CreateRestaurantCategory(ctx, a.str("name"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"category": c}, nil
		}),

		"updateCategory": r.op("updateCategory", categoryPayload("UpdateCategoryPayload"), graphql.FieldConfigArgument{
			"id":   idArg(),
			"name": optArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			c, err := r.Catalog.UpdateRestaurantCategory(ctx, id, a.nonEmptyStr("name"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"category": c}, nil
		}),

		"deleteCategory": r.op("deleteCategory", t.success, byID, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			if err := r.Catalog.DeleteRestaurantCategory(ctx, id); err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"createMenuItemCategory": r.op("createMenuItemCategory", itemCategoryPayload("CreateMenuItemCategoryPayload"), graphql.FieldConfigArgument{
			"name": reqArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			c, err := r.Catalog.CreateMenuItemCategory(ctx, a.str("name"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"category": c}, nil
		}),

		"updateMenuItemCategory": r.op("updateMenuItemCategory", itemCategoryPayload("UpdateMenuItemCategoryPayload"), graphql.FieldConfigArgument{
			"id":   idArg(),
			"name": optArg(graphql.String),
		}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			c, err := r.Catalog.UpdateMenuItemCategory(ctx, id, a.nonEmptyStr("name"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"category": c}, nil
		}),

		"deleteMenuItemCategory": r.op("deleteMenuItemCategory", t.success, byID, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			if err := r.Catalog.DeleteMenuItemCategory(ctx, id); err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"createMenuItem": r.op("createMenuItem", menuItemPayload("CreateMenuItemPayload"), graphql.FieldConfigArgument{
			"restaurantId": idArg(),
			"name":         reqArg(graphql.String),
			"description":  optArg(graphql.String),
			"price":        reqArg(graphql.Float),
			"categoryId":   optArg(graphql.ID),
		}, func(ctx context.Context, a args) (interface{}, error) {
			restaurantID, err := a.id("restaurantId")
			if err != nil {
				return nil, err
			}
			categoryID, err := a.optID("categoryId")
			if err != nil {
				return nil, err
			}
			item, err := r.Catalog.CreateMenuItem(ctx, service.MenuItemInput{
				RestaurantID: restaurantID,
				CategoryID:   categoryID,
				Name:         a.str("name"),
				Description:  a.str("description"),
				Price:        a.money("price"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"menuItem": item}, nil
		}),

		"updateMenuItem": r.op("updateMenuItem", menuItemPayload("UpdateMenuItemPayload"), graphql.FieldConfigArgument{
			"id":          idArg(),
			"name":        optArg(graphql.String),
			"description": optArg(graphql.String),
			"price":       optArg(graphql.Float),
			"categoryId":  optArg(graphql.ID),
		}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			categoryID, err := a.optID("categoryId")
			if err != nil {
				return nil, err
			}
			item, err := r.Catalog.UpdateMenuItem(ctx, id, service.MenuItemPatch{
				Name:        a.nonEmptyStr("name"),
				Description: a.nonEmptyStr("description"),
				Price:       a.optMoney("price"),
				CategoryID:  categoryID,
			})
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"menuItem": item}, nil
		}),

		"deleteMenuItem": r.op("deleteMenuItem", t.success, byID, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			if err := r.Catalog.DeleteMenuItem(ctx, id); err != nil {
				return nil, err
			}
			return success(), nil
		}),
	}
}
