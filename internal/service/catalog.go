package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/cache"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/repo"
	"github.com/Skotchmaster/foodmarket/internal/search"
	"github.com/Skotchmaster/foodmarket/internal/storage"
	"github.com/Skotchmaster/foodmarket/internal/util"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Cache    cache.Restaurants
	Search   search.Index
	Images   storage.ImageStore
	Events   events.Publisher
	MediaURL string
}

type RestaurantInput struct {
	Name       string `validate:"required,max=255"`
	Address    string `validate:"required,max=255"`
	Phone      string `validate:"required,max=15"`
	CategoryID *uint
}

type RestaurantPatch struct {
	Name       *string `validate:"omitempty,max=255"`
	Address    *string `validate:"omitempty,max=255"`
	Phone      *string `validate:"omitempty,max=15"`
	CategoryID *uint
}

type MenuItemInput struct {
	RestaurantID uint `validate:"required"`
	CategoryID   *uint
	Name         string `validate:"required,max=255"`
	Description  string
	Price        models.Money
}

type MenuItemPatch struct {
	Name        *string `validate:"omitempty,max=255"`
	Description *string
	Price       *models.Money
	CategoryID  *uint
}

func (s *CatalogService) cache() cache.Restaurants {
	if s.Cache == nil {
		return cache.Nop{}
	}
	return s.Cache
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.cache().All(ctx, s.Repo.ListRestaurants)
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	return s.cache().Restaurant(ctx, id, func(ctx context.Context) (*models.Restaurant, error) {
		rest, err := s.Repo.GetRestaurant(ctx, id)
		return rest, storeErr(err, fmt.Sprintf("restaurant %d", id))
	})
}

func (s *CatalogService) checkRestaurantCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.Repo.GetRestaurantCategory(ctx, *id)
	return storeErr(err, fmt.Sprintf("restaurant category %d", *id))
}

func (s *CatalogService) checkMenuItemCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.Repo.GetMenuItemCategory(ctx, *id)
	return storeErr(err, fmt.Sprintf("menu item category %d", *id))
}

func (s *CatalogService) CreateRestaurant(ctx context.Context, in RestaurantInput) (*models.Restaurant, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_restaurant")

	in.Name, in.Address, in.Phone = strings.TrimSpace(in.Name), strings.TrimSpace(in.Address), strings.TrimSpace(in.Phone)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkRestaurantCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	rest := &models.Restaurant{Name: in.Name, Address: in.Address, Phone: in.Phone, CategoryID: in.CategoryID}
	if err := s.Repo.CreateRestaurant(ctx, rest); err != nil {
		l.Error("create_restaurant_error", "status", 500, "error", err)
		return nil, err
	}

	s.cache().Invalidate(ctx, rest.ID)
	publish(ctx, s.Events, events.TopicCatalog, rest.ID, map[string]any{"type": "restaurant_created", "restaurant_id": rest.ID})
	return rest, nil
}

func (s *CatalogService) UpdateRestaurant(ctx context.Context, id uint, in RestaurantPatch) (*models.Restaurant, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	rest, err := s.Repo.GetRestaurant(ctx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("restaurant %d", id))
	}
	if err := s.checkRestaurantCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	if v := trimmed(in.Name); v != "" {
		rest.Name = v
	}
	if v := trimmed(in.Address); v != "" {
		rest.Address = v
	}
	if v := trimmed(in.Phone); v != "" {
		rest.Phone = v
	}
	if in.CategoryID != nil {
		rest.CategoryID = in.CategoryID
	}

	if err := s.Repo.SaveRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	s.cache().Invalidate(ctx, id)
	publish(ctx, s.Events, events.TopicCatalog, id, map[string]any{"type": "restaurant_updated", "restaurant_id": id})
	return rest, nil
}

func (s *CatalogService) DeleteRestaurant(ctx context.Context, id uint) error {
	itemIDs, err := s.Repo.DeleteRestaurant(ctx, id)
	if err != nil {
		return storeErr(err, fmt.Sprintf("restaurant %d", id))
	}
	s.cache().Invalidate(ctx, id)
	for _, itemID := range itemIDs {
		s.unindex(ctx, itemID)
	}
	publish(ctx, s.Events, events.TopicCatalog, id, map[string]any{"type": "restaurant_deleted", "restaurant_id": id})
	return nil
}

func (s *CatalogService) ListRestaurantCategories(ctx context.Context) ([]models.RestaurantCategory, error) {
	return s.Repo.ListRestaurantCategories(ctx)
}

func (s *CatalogService) GetRestaurantCategory(ctx context.Context, id uint) (*models.RestaurantCategory, error) {
	c, err := s.Repo.GetRestaurantCategory(ctx, id)
	return c, storeErr(err, fmt.Sprintf("restaurant category %d", id))
}

func (s *CatalogService) CreateRestaurantCategory(ctx context.Context, name string) (*models.RestaurantCategory, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}
	c := &models.RestaurantCategory{Name: name}
	if err := s.Repo.SaveRestaurantCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateRestaurantCategory(ctx context.Context, id uint, name *string) (*models.RestaurantCategory, error) {
	c, err := s.GetRestaurantCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := trimmed(name); v != "" {
		if c.Name, err = categoryName(v); err != nil {
			return nil, err
		}
		if err := s.Repo.SaveRestaurantCategory(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *CatalogService) DeleteRestaurantCategory(ctx context.Context, id uint) error {
	restIDs, err := s.Repo.DeleteRestaurantCategory(ctx, id)
	if err != nil {
		return storeErr(err, fmt.Sprintf("restaurant category %d", id))
	}
	for _, restID := range restIDs {
		s.cache().Invalidate(ctx, restID)
	}
	return nil
}

func (s *CatalogService) ListMenuItemCategories(ctx context.Context) ([]models.MenuItemCategory, error) {
	return s.Repo.ListMenuItemCategories(ctx)
}

func (s *CatalogService) GetMenuItemCategory(ctx context.Context, id uint) (*models.MenuItemCategory, error) {
	c, err := s.Repo.GetMenuItemCategory(ctx, id)
	return c, storeErr(err, fmt.Sprintf("menu item category %d", id))
}

func (s *CatalogService) CreateMenuItemCategory(ctx context.Context, name string) (*models.MenuItemCategory, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}
	c := &models.MenuItemCategory{Name: name}
	if err := s.Repo.SaveMenuItemCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateMenuItemCategory(ctx context.Context, id uint, name *string) (*models.MenuItemCategory, error) {
	c, err := s.GetMenuItemCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := trimmed(name); v != "" {
		if c.Name, err = categoryName(v); err != nil {
			return nil, err
		}
		if err := s.Repo.SaveMenuItemCategory(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *CatalogService) DeleteMenuItemCategory(ctx context.Context, id uint) error {
	return storeErr(s.Repo.DeleteMenuItemCategory(ctx, id), fmt.Sprintf("menu item category %d", id))
}

func (s *CatalogService) ListMenuItems(ctx context.Context, restaurantID *uint) ([]models.MenuItem, error) {
	return s.Repo.ListMenuItems(ctx, restaurantID)
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	return item, storeErr(err, fmt.Sprintf("menu item %d", id))
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkAmount(in.Price, "price"); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetRestaurant(ctx, in.RestaurantID); err != nil {
		return nil, storeErr(err, fmt.Sprintf("restaurant %d", in.RestaurantID))
	}
	if err := s.checkMenuItemCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		RestaurantID: in.RestaurantID,
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
	}
	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.index(ctx, item)
	publish(ctx, s.Events, events.TopicCatalog, item.RestaurantID, map[string]any{"type": "menu_item_created", "menu_item_id": item.ID})
	return item, nil
}

// UpdateMenuItem ignores empty names and non-positive prices.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uint, in MenuItemPatch) (*models.MenuItem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Price != nil && *in.Price > models.MaxMoney {
		return nil, checkAmount(*in.Price, "price")
	}
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkMenuItemCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	if v := trimmed(in.Name); v != "" {
		item.Name = v
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil && *in.Price > 0 {
		item.Price = *in.Price
	}
	if in.CategoryID != nil {
		item.CategoryID = in.CategoryID
	}

	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.index(ctx, item)
	publish(ctx, s.Events, events.TopicCatalog, item.RestaurantID, map[string]any{"type": "menu_item_updated", "menu_item_id": item.ID})
	return item, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteMenuItem(ctx, id); err != nil {
		return storeErr(err, fmt.Sprintf("menu item %d", id))
	}
	s.unindex(ctx, id)
	if item.ImageKey != "" && s.Images != nil {
		if err := s.Images.Delete(ctx, item.ImageKey); err != nil {
			logging.FromContext(ctx).Warn("image_delete_failed", "key", item.ImageKey, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicCatalog, item.RestaurantID, map[string]any{"type": "menu_item_deleted", "menu_item_id": id})
	return nil
}

// SetMenuItemImage uploads an image and points the item at it.
func (s *CatalogService) SetMenuItemImage(ctx context.Context, id uint, filename, contentType string, body io.Reader, size int64) (*models.MenuItem, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.set_image", "menu_item_id", id)

	if s.Images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("content type %q is not an image: %w", contentType, apperr.ErrInvalidArgument)
	}
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("menu_items/%d/%d%s", id, time.Now().UnixNano(), strings.ToLower(path.Ext(filename)))
	if err := s.Images.Put(ctx, key, contentType, body, size); err != nil {
		l.Error("image_upload_failed", "status", 500, "error", err)
		return nil, err
	}

	old := item.ImageKey
	item.ImageKey = key
	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		return nil, err
	}
	if old != "" {
		if err := s.Images.Delete(ctx, old); err != nil {
			l.Warn("image_delete_failed", "key", old, "error", err)
		}
	}
	s.index(ctx, item)
	return item, nil
}

func (s *CatalogService) ImageURL(item *models.MenuItem) string {
	return storage.PublicURL(s.MediaURL, item.ImageKey)
}

type SearchResult struct {
	Total int64
	Page  int
	Size  int
	Items []models.MenuItem
}

func (s *CatalogService) SearchMenuItems(ctx context.Context, query string, page, size int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", apperr.ErrInvalidArgument)
	}
	if page < 1 {
		page = 1
	}
	from, limit := util.Calculate(page, size)

	idx := s.Search
	if idx == nil {
		idx = &search.DB{Repo: s.Repo}
	}
	total, items, err := idx.Search(ctx, query, from, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search_error", "status", 500, "error", err)
		return nil, err
	}
	return &SearchResult{Total: total, Page: page, Size: limit, Items: items}, nil
}

func (s *CatalogService) index(ctx context.Context, item *models.MenuItem) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexMenuItem(ctx, *item); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "menu_item_id", item.ID, "error", err)
	}
}

func (s *CatalogService) unindex(ctx context.Context, id uint) {
	if s.Search == nil {
		return
	}
	if err := s.Search.DeleteMenuItem(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_unindex_failed", "menu_item_id", id, "error", err)
	}
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return "", fmt.Errorf("category name must be 1..100 characters: %w", apperr.ErrInvalidArgument)
	}
	return name, nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
