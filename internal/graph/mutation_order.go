package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/Skotchmaster/foodmarket/internal/service"
)

func (r *Resolver) orderMutations(t *types) graphql.Fields {
	orderPayload := func(name string) *graphql.Object { return payload(name, "order", t.order) }
	orderItemPayload := func(name string) *graphql.Object { return payload(name, "orderItem", t.orderItem) }
	cartItemPayload := func(name string) *graphql.Object { return payload(name, "cartItem", t.cartItem) }

	return graphql.Fields{
		"createOrder": r.op("createOrder", orderPayload("CreateOrderPayload"), graphql.FieldConfigArgument{
			"totalPrice": reqArg(graphql.Float),
		}, func(ctx context.Context, a args) (interface{}, error) {
			order, err := r.Orders.CreateOrder(ctx, callerID(ctx), a.money("totalPrice"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"order": order}, nil
		}),

		"updateOrder": r.op("updateOrder", orderPayload("UpdateOrderPayload"), graphql.FieldConfigArgument{
			"id":         idArg(),
			"totalPrice": optArg(graphql.Float),
		}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			order, err := r.Orders.UpdateOrder(ctx, callerID(ctx), id, a.optMoney("totalPrice"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"order": order}, nil
		}),

		"deleteOrder": r.op("deleteOrder", t.success, graphql.FieldConfigArgument{"id": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			if err := r.Orders.DeleteOrder(ctx, callerID(ctx), id); err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"createOrderItem": r.op("createOrderItem", orderItemPayload("CreateOrderItemPayload"), graphql.FieldConfigArgument{
			"orderId":     idArg(),
			"productId":   optArg(graphql.ID),
			"productName": optArg(graphql.String),
			"quantity":    reqArg(graphql.Int),
			"price":       optArg(graphql.Float),
		}, func(ctx context.Context, a args) (interface{}, error) {
			orderID, err := a.id("orderId")
			if err != nil {
				return nil, err
			}
			productID, err := a.optID("productId")
			if err != nil {
				return nil, err
			}
			item, err := r.Orders.CreateOrderItem(ctx, callerID(ctx), service.OrderItemInput{
				OrderID:     orderID,
				ProductID:   productID,
				ProductName: a.str("productName"),
				Quantity:    a.integer("quantity"),
				Price:       a.optMoney("price"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"orderItem": item}, nil
		}),

		"updateOrderItem": r.op("updateOrderItem", orderItemPayload("UpdateOrderItemPayload"), graphql.FieldConfigArgument{
			"id":          idArg(),
			"productName": optArg(graphql.String),
			"quantity":    optArg(graphql.Int),
			"price":       optArg(graphql.Float),
		}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			item, err := r.Orders.UpdateOrderItem(ctx, callerID(ctx), id, service.OrderItemPatch{
				ProductName: a.nonEmptyStr("productName"),
				Quantity:    a.optInt("quantity"),
				Price:       a.optMoney("price"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"orderItem": item}, nil
		}),

		"deleteOrderItem": r.op("deleteOrderItem", t.success, graphql.FieldConfigArgument{"id": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			id, err := a.id("id")
			if err != nil {
				return nil, err
			}
			if err := r.Orders.DeleteOrderItem(ctx, callerID(ctx), id); err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"addCartItem": r.op("addCartItem", cartItemPayload("AddCartItemPayload"), graphql.FieldConfigArgument{
			"productId": idArg(),
			"quantity":  reqArg(graphql.Int),
		}, func(ctx context.Context, a args) (interface{}, error) {
			productID, err := a.id("productId")
			if err != nil {
				return nil, err
			}
			item, err := r.Carts.AddCartItem(ctx, callerID(ctx), productID, a.integer("quantity"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"cartItem": item}, nil
		}),

		"updateCartItem": r.op("updateCartItem", cartItemPayload("UpdateCartItemPayload"), graphql.FieldConfigArgument{
			"cartItemId": idArg(),
			"quantity":   reqArg(graphql.Int),
		}, func(ctx context.Context, a args) (interface{}, error) {
			itemID, err := a.id("cartItemId")
			if err != nil {
				return nil, err
			}
			item, err := r.Carts.UpdateCartItem(ctx, callerID(ctx), itemID, a.integer("quantity"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"cartItem": item}, nil
		}),

		"deleteCartItem": r.op("deleteCartItem", t.success, graphql.FieldConfigArgument{"cartItemId": idArg()}, func(ctx context.Context, a args) (interface{}, error) {
			itemID, err := a.id("cartItemId")
			if err != nil {
				return nil, err
			}
			if err := r.Carts.DeleteCartItem(ctx, callerID(ctx), itemID); err != nil {
				return nil, err
			}
			return success(), nil
		}),

		"clearCart": r.op("clearCart", t.clearCart, nil, func(ctx context.Context, _ args) (interface{}, error) {
			n, err := r.Carts.ClearCart(ctx, callerID(ctx))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"success": true, "removed": n}, nil
		}),

		"checkoutCart": r.op("checkoutCart", orderPayload("CheckoutCartPayload"), nil, func(ctx context.Context, _ args) (interface{}, error) {
			order, err := r.Carts.Checkout(ctx, callerID(ctx))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"order": order}, nil
		}),
	}
}
