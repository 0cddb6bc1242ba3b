package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/foodmarket/internal/models"
)

var (
	ErrCartEmpty = errors.New("cart is empty")

	// ErrLimitExceeded means a quantity or amount would pass
	// models.MaxQuantity or models.MaxMoney; nothing was written.
	ErrLimitExceeded = errors.New("quantity or amount limit exceeded")
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func getOrCreateCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&cart).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart inserts the line or adds qty to the existing one in a single
// upsert, then re-reads it. The price follows the final quantity.
func (r *GormRepo) AddToCart(ctx context.Context, userID uint, product *models.MenuItem, qty int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		line := models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  qty,
			Price:     product.Price.Times(qty),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
				"price":      gorm.Expr("(cart_items.quantity + ?) * ?", qty, int64(product.Price)),
				"updated_at": tx.NowFunc(),
			}),
		}).Omit(clause.Associations).Create(&line).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > models.MaxQuantity || item.Price > models.MaxMoney {
			return ErrLimitExceeded
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	item.Product = *product
	return &item, nil
}

// SetCartItemQuantity reprices an owned line from the live product.
func (r *GormRepo) SetCartItemQuantity(ctx context.Context, userID, itemID uint, qty int) (*models.CartItem, error) {
	var out *models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := FirstOwned[models.CartItem](ctx, forUpdate(tx), OwnedViaCart, userID, itemID)
		if err != nil {
			return err
		}
		var product models.MenuItem
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			return err
		}

		price, ok := product.Price.LineTotal(qty)
		if !ok {
			return ErrLimitExceeded
		}
		item.Quantity = qty
		item.Price = price
		if err := tx.Model(item).Select("quantity", "price", "updated_at").Updates(item).Error; err != nil {
			return err
		}
		item.Product = product
		out = item
		return nil
	})
	return out, err
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, userID, itemID uint) error {
	return DeleteOwned[models.CartItem](ctx, r.DB, OwnedViaCart, userID, itemID)
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) (int64, error) {
	res := OwnedViaCart(r.DB.WithContext(ctx), userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// Checkout turns the cart into an order with one snapshot line per cart line
// and empties the cart, all in one transaction.
func (r *GormRepo) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := OwnedViaCart(forUpdate(tx), userID).
			Order("id ASC").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrCartEmpty
		}

		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		var products []models.MenuItem
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.MenuItem, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		order = models.Order{UserID: userID}
		for _, l := range lines {
			p, ok := byID[l.ProductID]
			if !ok {
				return gorm.ErrRecordNotFound
			}
			line, ok := p.Price.LineTotal(l.Quantity)
			if !ok || order.TotalPrice+line > models.MaxMoney {
				return ErrLimitExceeded
			}
			order.TotalPrice += line
			order.Items = append(order.Items, models.OrderItem{
				ProductName: p.Name,
				Quantity:    l.Quantity,
				Price:       p.Price,
			})
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return OwnedViaCart(tx, userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
