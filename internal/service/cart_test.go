package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/models"
)

func TestCartService_AddCartItem_AccumulatesAndReprices(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "cart@example.com")
	product := f.menuItem(t, "Iskender", 12.50)

	item, err := f.carts.AddCartItem(ctx, u.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "37.50", item.Price.String())

	item, err = f.carts.AddCartItem(ctx, u.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, "62.50", item.Price.String())

	cart, err := f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.Name, cart.Items[0].Product.Name)

	assert.Len(t, f.events.Topic(events.TopicCarts), 2)
}

func TestCartService_AddCartItem_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "v@example.com")
	product := f.menuItem(t, "Ayran", 2)

	tests := []struct {
		name      string
		productID uint
		quantity  int
		want      error
	}{
		{name: "zero quantity", productID: product.ID, quantity: 0, want: apperr.ErrInvalidArgument},
		{name: "negative quantity", productID: product.ID, quantity: -2, want: apperr.ErrInvalidArgument},
		{name: "missing product", productID: 9999, quantity: 1, want: apperr.ErrNotFound},
		{name: "quantity over limit", productID: product.ID, quantity: models.MaxQuantity + 1, want: apperr.ErrInvalidArgument},
		{name: "huge quantity", productID: product.ID, quantity: 2_000_000_000, want: apperr.ErrInvalidArgument},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			item, err := f.carts.AddCartItem(ctx, u.ID, tt.productID, tt.quantity)
			assert.Nil(t, item)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.carts.GetCart(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCartService_UpdateCartItem(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.customer(t, "owner@example.com")
	other := f.customer(t, "other@example.com")
	product := f.menuItem(t, "Manti", 7.35)

	item, err := f.carts.AddCartItem(ctx, owner.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err := f.carts.UpdateCartItem(ctx, owner.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, product.Price.Times(4), updated.Price)
	assert.Equal(t, "29.40", updated.Price.String())

	_, err = f.carts.UpdateCartItem(ctx, other.ID, item.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.carts.UpdateCartItem(ctx, owner.ID, item.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	cart, err := f.carts.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestCartService_UpdateCartItem_FollowsCurrentPrice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "price@example.com")
	product := f.menuItem(t, "Kunefe", 10)

	item, err := f.carts.AddCartItem(ctx, u.ID, product.ID, 2)
	require.NoError(t, err)

	newPrice := models.MoneyFromFloat(11.25)
	_, err = f.catalog.UpdateMenuItem(ctx, product.ID, MenuItemPatch{Price: &newPrice})
	require.NoError(t, err)

	updated, err := f.carts.UpdateCartItem(ctx, u.ID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "33.75", updated.Price.String())
}

func TestCartService_DeleteCartItem_Twice(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "del@example.com")
	product := f.menuItem(t, "Baklava", 4)

	item, err := f.carts.AddCartItem(ctx, u.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.carts.DeleteCartItem(ctx, u.ID, item.ID))
	assert.ErrorIs(t, f.carts.DeleteCartItem(ctx, u.ID, item.ID), apperr.ErrNotFound)
}

func TestCartService_DeleteCartItem_OtherUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	owner := f.customer(t, "a@example.com")
	thief := f.customer(t, "b@example.com")
	product := f.menuItem(t, "Simit", 1)

	item, err := f.carts.AddCartItem(ctx, owner.ID, product.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, f.carts.DeleteCartItem(ctx, thief.ID, item.ID), apperr.ErrNotFound)

	cart, err := f.carts.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_CheckoutAndClear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "checkout@example.com")
	a := f.menuItem(t, "Lahmacun", 5.50)
	b := f.menuItem(t, "Ayran", 1.25)

	_, err := f.carts.Checkout(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.carts.AddCartItem(ctx, u.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddCartItem(ctx, u.ID, b.ID, 2)
	require.NoError(t, err)

	order, err := f.carts.Checkout(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "13.50", order.TotalPrice.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Lahmacun", order.Items[0].ProductName)
	assert.Equal(t, a.Price, order.Items[0].Price)

	orders, err := f.orders.ListOrders(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = f.carts.AddCartItem(ctx, u.ID, a.ID, 1)
	require.NoError(t, err)
	n, err := f.carts.ClearCart(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	cart, err := f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_AmountLimits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "whale@example.com")
	caviar := f.menuItem(t, "Caviar", 99_999_999.99)
	tea := f.menuItem(t, "Tea", 1)

	_, err := f.carts.AddCartItem(ctx, u.ID, caviar.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = f.carts.GetCart(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	line, err := f.carts.AddCartItem(ctx, u.ID, tea.ID, models.MaxQuantity)
	require.NoError(t, err)
	_, err = f.carts.AddCartItem(ctx, u.ID, tea.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = f.carts.UpdateCartItem(ctx, u.ID, line.ID, models.MaxQuantity+1)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	cart, err := f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, models.MaxQuantity, cart.Items[0].Quantity)

	_, err = f.carts.AddCartItem(ctx, u.ID, caviar.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.Checkout(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	cart, err = f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	orders, err := f.orders.ListOrders(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
