package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/cache"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/models"
)

func TestCatalogService_Restaurants(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	cat, err := f.catalog.CreateRestaurantCategory(ctx, "Turkish")
	require.NoError(t, err)

	missing := uint(404)
	_, err = f.catalog.CreateRestaurant(ctx, RestaurantInput{Name: "X", Address: "Y", Phone: "1", CategoryID: &missing})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.catalog.CreateRestaurant(ctx, RestaurantInput{Address: "Y", Phone: "1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	rest, err := f.catalog.CreateRestaurant(ctx, RestaurantInput{Name: "Hamdi", Address: "Eminonu", Phone: "2125280390", CategoryID: &cat.ID})
	require.NoError(t, err)

	blank := "  "
	newName := "Hamdi Restaurant"
	updated, err := f.catalog.UpdateRestaurant(ctx, rest.ID, RestaurantPatch{Name: &newName, Address: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Hamdi Restaurant", updated.Name)
	assert.Equal(t, "Eminonu", updated.Address)

	got, err := f.catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hamdi Restaurant", got.Name)

	require.NoError(t, f.catalog.DeleteRestaurantCategory(ctx, cat.ID))
	got, err = f.catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	require.NoError(t, f.catalog.DeleteRestaurant(ctx, rest.ID))
	_, err = f.catalog.GetRestaurant(ctx, rest.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, f.catalog.DeleteRestaurant(ctx, rest.ID), apperr.ErrNotFound)

	assert.Len(t, f.events.Topic(events.TopicCatalog), 3)
}

func TestCatalogService_DeleteRestaurant_RemovesMenuAndCartLines(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "eater@example.com")
	item := f.menuItem(t, "Doner", 6)

	_, err := f.carts.AddCartItem(ctx, u.ID, item.ID, 2)
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteRestaurant(ctx, item.RestaurantID))

	_, err = f.catalog.GetMenuItem(ctx, item.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	cart, err := f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCatalogService_MenuItems(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	rest, err := f.catalog.CreateRestaurant(ctx, RestaurantInput{Name: "Ciya", Address: "Kadikoy", Phone: "2163303190"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   MenuItemInput
		want error
	}{
		{name: "zero price", in: MenuItemInput{RestaurantID: rest.ID, Name: "Free"}, want: apperr.ErrInvalidArgument},
		{name: "missing name", in: MenuItemInput{RestaurantID: rest.ID, Price: 100}, want: apperr.ErrInvalidArgument},
		{name: "missing restaurant", in: MenuItemInput{RestaurantID: 999, Name: "Ghost", Price: 100}, want: apperr.ErrNotFound},
		{name: "price over limit", in: MenuItemInput{RestaurantID: rest.ID, Name: "Gold", Price: models.MaxMoney + 1}, want: apperr.ErrInvalidArgument},
		{name: "huge price", in: MenuItemInput{RestaurantID: rest.ID, Name: "Gold", Price: models.MoneyFromFloat(1e15)}, want: apperr.ErrInvalidArgument},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.CreateMenuItem(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	item, err := f.catalog.CreateMenuItem(ctx, MenuItemInput{RestaurantID: rest.ID, Name: "Kebap", Description: "with pistachio", Price: models.MoneyFromFloat(18.9)})
	require.NoError(t, err)

	zero := models.Money(0)
	updated, err := f.catalog.UpdateMenuItem(ctx, item.ID, MenuItemPatch{Price: &zero})
	require.NoError(t, err)
	assert.Equal(t, "18.90", updated.Price.String())

	tooMuch := models.MaxMoney + 1
	_, err = f.catalog.UpdateMenuItem(ctx, item.ID, MenuItemPatch{Price: &tooMuch})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	items, err := f.catalog.ListMenuItems(ctx, &rest.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	other := rest.ID + 100
	items, err = f.catalog.ListMenuItems(ctx, &other)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, f.catalog.DeleteMenuItem(ctx, item.ID))
	assert.ErrorIs(t, f.catalog.DeleteMenuItem(ctx, item.ID), apperr.ErrNotFound)
}

func TestCatalogService_MenuItemCategories(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateMenuItemCategory(ctx, " ")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	cat, err := f.catalog.CreateMenuItemCategory(ctx, "Desserts")
	require.NoError(t, err)

	renamed := "Sweets"
	got, err := f.catalog.UpdateMenuItemCategory(ctx, cat.ID, &renamed)
	require.NoError(t, err)
	assert.Equal(t, "Sweets", got.Name)

	all, err := f.catalog.ListMenuItemCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.catalog.DeleteMenuItemCategory(ctx, cat.ID))
	_, err = f.catalog.GetMenuItemCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCatalogService_SetMenuItemImage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	item := f.menuItem(t, "Pide", 9)

	_, err := f.catalog.SetMenuItemImage(ctx, item.ID, "pide.txt", "text/plain", strings.NewReader("nope"), 4)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.catalog.SetMenuItemImage(ctx, 999, "pide.png", "image/png", strings.NewReader("png"), 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	first, err := f.catalog.SetMenuItemImage(ctx, item.ID, "pide.PNG", "image/png", strings.NewReader("first"), 5)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first.ImageKey, ".png"))
	firstKey := first.ImageKey

	body, ct, ok := f.images.Get(firstKey)
	require.True(t, ok)
	assert.Equal(t, "first", string(body))
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, "https://cdn.test/media/"+firstKey, f.catalog.ImageURL(first))

	second, err := f.catalog.SetMenuItemImage(ctx, item.ID, "pide.jpg", "image/jpeg", strings.NewReader("second"), 6)
	require.NoError(t, err)
	_, _, ok = f.images.Get(firstKey)
	assert.False(t, ok)

	require.NoError(t, f.catalog.DeleteMenuItem(ctx, item.ID))
	_, _, ok = f.images.Get(second.ImageKey)
	assert.False(t, ok)
}

func TestCatalogService_SearchMenuItems(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.menuItem(t, "Adana Kebap", 15)
	f.menuItem(t, "Urfa Kebap", 15)
	f.menuItem(t, "Mercimek Corbasi", 4)

	_, err := f.catalog.SearchMenuItems(ctx, "  ", 1, 10)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	res, err := f.catalog.SearchMenuItems(ctx, "kebap", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Size)

	res, err = f.catalog.SearchMenuItems(ctx, "kebap", 2, 1)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Page)
}

func TestCatalogService_RestaurantCacheInvalidation(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t)
	f.catalog.Cache = cache.NewRedis(client, time.Minute)
	ctx := context.Background()

	rest, err := f.catalog.CreateRestaurant(ctx, RestaurantInput{Name: "Karakoy", Address: "Galata", Phone: "1"})
	require.NoError(t, err)

	list, err := f.catalog.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists("restaurants:all"))

	name := "Karakoy Lokantasi"
	_, err = f.catalog.UpdateRestaurant(ctx, rest.ID, RestaurantPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, mr.Exists("restaurants:all"))

	list, err = f.catalog.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Karakoy Lokantasi", list[0].Name)

	got, err := f.catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Karakoy Lokantasi", got.Name)
}

func TestCatalogService_CategoryDeleteClearsRestaurantCache(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t)
	f.catalog.Cache = cache.NewRedis(client, time.Minute)
	ctx := context.Background()

	cat, err := f.catalog.CreateRestaurantCategory(ctx, "Kebap")
	require.NoError(t, err)
	rest, err := f.catalog.CreateRestaurant(ctx, RestaurantInput{Name: "Zubeyir", Address: "Beyoglu", Phone: "1", CategoryID: &cat.ID})
	require.NoError(t, err)

	_, err = f.catalog.ListRestaurants(ctx)
	require.NoError(t, err)
	_, err = f.catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists("restaurants:all"))
	require.True(t, mr.Exists(fmt.Sprintf("restaurant:%d", rest.ID)))

	require.NoError(t, f.catalog.DeleteRestaurantCategory(ctx, cat.ID))
	assert.False(t, mr.Exists("restaurants:all"))
	assert.False(t, mr.Exists(fmt.Sprintf("restaurant:%d", rest.ID)))

	list, err := f.catalog.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].CategoryID)

	got, err := f.catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}
