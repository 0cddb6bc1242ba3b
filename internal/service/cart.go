package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (h *CartService) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := h.Repo.GetCart(ctx, userID)
	return cart, storeErr(err, "cart")
}

// AddCartItem adds quantity of a product to the caller's cart, creating the
// cart and the line as needed.
func (h *CartService) AddCartItem(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID, "product_id", productID)

	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	product, err := h.Repo.GetMenuItem(ctx, productID)
	if err != nil {
		l.Warn("add_cart_item_error", "status", 404, "error", err)
		return nil, storeErr(err, fmt.Sprintf("product %d", productID))
	}
	if _, ok := product.Price.LineTotal(quantity); !ok {
		l.Warn("add_cart_item_error", "status", 400, "reason", "line total over limit")
		return nil, fmt.Errorf("line total must not exceed %s: %w", models.MaxMoney, apperr.ErrInvalidArgument)
	}

	item, err := h.Repo.AddToCart(ctx, userID, product, quantity)
	if err != nil {
		if errors.Is(err, repo.ErrLimitExceeded) {
			l.Warn("add_cart_item_error", "status", 400, "error", err)
			return nil, storeErr(err, "cart line")
		}
		l.Error("add_cart_item_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, h.Events, events.TopicCarts, userID, map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return item, nil
}

func (h *CartService) UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := h.Repo.SetCartItemQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("cart item %d", itemID))
	}
	publish(ctx, h.Events, events.TopicCarts, userID, map[string]any{
		"type":         "cart_item_updated",
		"user_id":      userID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})
	return item, nil
}

func (h *CartService) DeleteCartItem(ctx context.Context, userID, itemID uint) error {
	if err := h.Repo.DeleteCartItem(ctx, userID, itemID); err != nil {
		return storeErr(err, fmt.Sprintf("cart item %d", itemID))
	}
	publish(ctx, h.Events, events.TopicCarts, userID, map[string]any{
		"type":         "cart_item_deleted",
		"user_id":      userID,
		"cart_item_id": itemID,
	})
	return nil
}

func (h *CartService) ClearCart(ctx context.Context, userID uint) (int64, error) {
	n, err := h.Repo.ClearCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	publish(ctx, h.Events, events.TopicCarts, userID, map[string]any{"type": "cart_cleared", "user_id": userID, "removed": n})
	return n, nil
}

// Checkout prices the cart from the live menu, records the order and empties
// the cart atomically.
func (h *CartService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "cart.checkout", "user_id", userID)

	order, err := h.Repo.Checkout(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrCartEmpty) {
			l.Warn("checkout_error", "status", 400, "reason", "cart is empty")
			return nil, fmt.Errorf("cart is empty: %w", apperr.ErrInvalidArgument)
		}
		if errors.Is(err, repo.ErrLimitExceeded) {
			l.Warn("checkout_error", "status", 400, "error", err)
			return nil, storeErr(err, "order total")
		}
		l.Error("checkout_error", "status", 500, "error", err)
		return nil, storeErr(err, "checkout")
	}

	publish(ctx, h.Events, events.TopicOrders, userID, map[string]any{
		"type":        "order_created",
		"order_id":    order.ID,
		"user_id":     userID,
		"total_price": order.TotalPrice.String(),
		"source":      "cart",
	})
	l.Info("checkout_success", "order_id", order.ID)
	return order, nil
}
