package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/foodmarket/internal/models"
)

func (r *GormRepo) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return listAll[models.Restaurant](ctx, r.DB)
}

func (r *GormRepo) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	return getByID[models.Restaurant](ctx, r.DB, id)
}

func (r *GormRepo) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Omit("MenuItems").Create(rest).Error
}

func (r *GormRepo) SaveRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.DB.WithContext(ctx).Omit("MenuItems").Save(rest).Error
}

// DeleteRestaurant removes the restaurant together with its menu and returns
// the ids of the deleted menu items.
func (r *GormRepo) DeleteRestaurant(ctx context.Context, id uint) ([]uint, error) {
	var itemIDs []uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).Where("restaurant_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("product_id IN ?", itemIDs).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("restaurant_id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
				return err
			}
		}
		return deleteByID[models.Restaurant](ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	return itemIDs, nil
}

func (r *GormRepo) ListRestaurantCategories(ctx context.Context) ([]models.RestaurantCategory, error) {
	return listAll[models.RestaurantCategory](ctx, r.DB)
}

func (r *GormRepo) GetRestaurantCategory(ctx context.Context, id uint) (*models.RestaurantCategory, error) {
	return getByID[models.RestaurantCategory](ctx, r.DB, id)
}

func (r *GormRepo) SaveRestaurantCategory(ctx context.Context, c *models.RestaurantCategory) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

// DeleteRestaurantCategory detaches restaurants before removing the category
// and returns the ids of the detached restaurants.
func (r *GormRepo) DeleteRestaurantCategory(ctx context.Context, id uint) ([]uint, error) {
	var restIDs []uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Restaurant{}).Where("category_id = ?", id).Pluck("id", &restIDs).Error; err != nil {
			return err
		}
		if len(restIDs) > 0 {
			if err := tx.Model(&models.Restaurant{}).Where("id IN ?", restIDs).Update("category_id", nil).Error; err != nil {
				return err
			}
		}
		return deleteByID[models.RestaurantCategory](ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	return restIDs, nil
}

func (r *GormRepo) ListMenuItemCategories(ctx context.Context) ([]models.MenuItemCategory, error) {
	return listAll[models.MenuItemCategory](ctx, r.DB)
}

func (r *GormRepo) GetMenuItemCategory(ctx context.Context, id uint) (*models.MenuItemCategory, error) {
	return getByID[models.MenuItemCategory](ctx, r.DB, id)
}

func (r *GormRepo) SaveMenuItemCategory(ctx context.Context, c *models.MenuItemCategory) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteMenuItemCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return deleteByID[models.MenuItemCategory](ctx, tx, id)
	})
}

func (r *GormRepo) ListMenuItems(ctx context.Context, restaurantID *uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	q := r.DB.WithContext(ctx).Order("id ASC")
	if restaurantID != nil {
		q = q.Where("restaurant_id = ?", *restaurantID)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListMenuItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	return getByID[models.MenuItem](ctx, r.DB, id)
}

func (r *GormRepo) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return deleteByID[models.MenuItem](ctx, tx, id)
	})
}

// SearchMenuItems is a portable LIKE search over name and description.
func (r *GormRepo) SearchMenuItems(ctx context.Context, q string, offset, limit int) (int64, []models.MenuItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := "LOWER(name) LIKE ? OR LOWER(description) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Where(where, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.MenuItem, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where(where, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
