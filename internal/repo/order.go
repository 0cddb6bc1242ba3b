package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/foodmarket/internal/models"
)

func orderItemsByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := OwnedByUser(r.DB.WithContext(ctx), userID).
		Preload("Items", orderItemsByID).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, userID, id uint) (*models.Order, error) {
	var order models.Order
	if err := OwnedByUser(r.DB.WithContext(ctx), userID).
		Preload("Items", orderItemsByID).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) SetOrderTotal(ctx context.Context, userID, id uint, total *models.Money) (*models.Order, error) {
	order, err := FirstOwned[models.Order](ctx, r.DB, OwnedByUser, userID, id)
	if err != nil {
		return nil, err
	}
	if total != nil {
		order.TotalPrice = *total
		if err := r.DB.WithContext(ctx).Model(order).Select("total_price", "updated_at").Updates(order).Error; err != nil {
			return nil, err
		}
	}
	return r.GetOrder(ctx, userID, id)
}

func (r *GormRepo) DeleteOrder(ctx context.Context, userID, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FirstOwned[models.Order](ctx, tx, OwnedByUser, userID, id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return DeleteOwned[models.Order](ctx, tx, OwnedByUser, userID, id)
	})
}

// CreateOrderItem appends item to an order owned by userID.
func (r *GormRepo) CreateOrderItem(ctx context.Context, userID uint, item *models.OrderItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FirstOwned[models.Order](ctx, tx, OwnedByUser, userID, item.OrderID); err != nil {
			return err
		}
		return tx.Create(item).Error
	})
}

func (r *GormRepo) GetOrderItem(ctx context.Context, userID, id uint) (*models.OrderItem, error) {
	return FirstOwned[models.OrderItem](ctx, r.DB, OwnedViaOrder, userID, id)
}

// PatchOrderItem writes only the columns named in fields.
func (r *GormRepo) PatchOrderItem(ctx context.Context, userID, id uint, fields map[string]any) (*models.OrderItem, error) {
	item, err := r.GetOrderItem(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.DB.WithContext(ctx).Model(item).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetOrderItem(ctx, userID, id)
}

func (r *GormRepo) DeleteOrderItem(ctx context.Context, userID, id uint) error {
	return DeleteOwned[models.OrderItem](ctx, r.DB, OwnedViaOrder, userID, id)
}
