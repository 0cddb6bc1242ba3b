package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/repo"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// OrderItemInput names the product either by id (snapshot taken from the
// menu) or by a free-form name and unit price.
type OrderItemInput struct {
	OrderID     uint
	ProductID   *uint
	ProductName string
	Quantity    int
	Price       *models.Money
}

type OrderItemPatch struct {
	ProductName *string
	Quantity    *int
	Price       *models.Money
}

func (svc *OrderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return svc.Repo.ListOrders(ctx, userID)
}

func (svc *OrderService) GetOrder(ctx context.Context, userID, id uint) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, userID, id)
	return order, storeErr(err, fmt.Sprintf("order %d", id))
}

// CreateOrder records a caller-asserted total; the cart is left untouched.
func (svc *OrderService) CreateOrder(ctx context.Context, userID uint, total models.Money) (*models.Order, error) {
	if err := checkAmount(total, "total price"); err != nil {
		return nil, err
	}
	order := &models.Order{UserID: userID, TotalPrice: total}
	if err := svc.Repo.CreateOrder(ctx, order); err != nil {
		logging.FromContext(ctx).With("svc", "order.create").Error("create_order_error", "status", 500, "error", err)
		return nil, err
	}
	publish(ctx, svc.Events, events.TopicOrders, userID, map[string]any{
		"type":        "order_created",
		"order_id":    order.ID,
		"user_id":     userID,
		"total_price": order.TotalPrice.String(),
	})
	return order, nil
}

// UpdateOrder keeps the stored total unless a positive one is supplied.
func (svc *OrderService) UpdateOrder(ctx context.Context, userID, id uint, total *models.Money) (*models.Order, error) {
	if total != nil && *total <= 0 {
		total = nil
	}
	if total != nil {
		if err := checkAmount(*total, "total price"); err != nil {
			return nil, err
		}
	}
	order, err := svc.Repo.SetOrderTotal(ctx, userID, id, total)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("order %d", id))
	}
	return order, nil
}

func (svc *OrderService) DeleteOrder(ctx context.Context, userID, id uint) error {
	if err := svc.Repo.DeleteOrder(ctx, userID, id); err != nil {
		return storeErr(err, fmt.Sprintf("order %d", id))
	}
	publish(ctx, svc.Events, events.TopicOrders, userID, map[string]any{"type": "order_deleted", "order_id": id, "user_id": userID})
	return nil
}

func (svc *OrderService) CreateOrderItem(ctx context.Context, userID uint, in OrderItemInput) (*models.OrderItem, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_item", "order_id", in.OrderID)

	if _, err := svc.Repo.GetOrder(ctx, userID, in.OrderID); err != nil {
		return nil, storeErr(err, fmt.Sprintf("order %d", in.OrderID))
	}

	item := &models.OrderItem{OrderID: in.OrderID, Quantity: in.Quantity}
	switch {
	case in.ProductID != nil:
		product, err := svc.Repo.GetMenuItem(ctx, *in.ProductID)
		if err != nil {
			return nil, storeErr(err, fmt.Sprintf("product %d", *in.ProductID))
		}
		item.ProductName = product.Name
		item.Price = product.Price
	case strings.TrimSpace(in.ProductName) != "":
		if in.Price == nil {
			return nil, fmt.Errorf("price is required with productName: %w", apperr.ErrInvalidArgument)
		}
		if err := checkAmount(*in.Price, "price"); err != nil {
			return nil, err
		}
		item.ProductName = strings.TrimSpace(in.ProductName)
		item.Price = *in.Price
	default:
		return nil, fmt.Errorf("productId or productName is required: %w", apperr.ErrInvalidArgument)
	}
	if err := checkQuantity(in.Quantity); err != nil {
		return nil, err
	}

	if err := svc.Repo.CreateOrderItem(ctx, userID, item); err != nil {
		l.Error("create_order_item_error", "status", 500, "error", err)
		return nil, storeErr(err, fmt.Sprintf("order %d", in.OrderID))
	}
	return item, nil
}

// UpdateOrderItem skips empty names and non-positive numbers.
func (svc *OrderService) UpdateOrderItem(ctx context.Context, userID, id uint, in OrderItemPatch) (*models.OrderItem, error) {
	fields := map[string]any{}
	if v := trimmed(in.ProductName); v != "" {
		fields["product_name"] = v
	}
	if in.Quantity != nil && *in.Quantity > 0 {
		if err := checkQuantity(*in.Quantity); err != nil {
			return nil, err
		}
		fields["quantity"] = *in.Quantity
	}
	if in.Price != nil && *in.Price > 0 {
		if err := checkAmount(*in.Price, "price"); err != nil {
			return nil, err
		}
		fields["price"] = *in.Price
	}

	item, err := svc.Repo.PatchOrderItem(ctx, userID, id, fields)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("order item %d", id))
	}
	return item, nil
}

func (svc *OrderService) DeleteOrderItem(ctx context.Context, userID, id uint) error {
	return storeErr(svc.Repo.DeleteOrderItem(ctx, userID, id), fmt.Sprintf("order item %d", id))
}
