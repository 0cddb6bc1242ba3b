package repo

import (
	"context"

	"gorm.io/gorm"
)

// OwnerScope restricts a query to rows that belong to userID.
type OwnerScope func(db *gorm.DB, userID uint) *gorm.DB

func OwnedByUser(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("user_id = ?", userID)
}

func OwnedViaCart(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("cart_id IN (SELECT id FROM carts WHERE user_id = ?)", userID)
}

func OwnedViaOrder(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("order_id IN (SELECT id FROM orders WHERE user_id = ?)", userID)
}

// FirstOwned loads the row id of T only when scope ties it to userID.
// Rows of other users are reported as gorm.ErrRecordNotFound.
func FirstOwned[T any](ctx context.Context, db *gorm.DB, scope OwnerScope, userID, id uint, preload ...string) (*T, error) {
	var out T
	q := scope(db.WithContext(ctx), userID)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func DeleteOwned[T any](ctx context.Context, db *gorm.DB, scope OwnerScope, userID, id uint) error {
	res := scope(db.WithContext(ctx), userID).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
