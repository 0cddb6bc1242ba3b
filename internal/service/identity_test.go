package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/tokens"
)

func TestIdentityService_Register(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	u, err := f.identity.Register(ctx, RegisterInput{
		FirstName: " Ayse ",
		LastName:  "Yilmaz",
		Email:     "Ayse@Example.COM",
		Password:  strongPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ayse@example.com", u.Email)
	assert.Equal(t, "Ayse", u.FirstName)
	assert.True(t, u.IsActive)
	assert.Equal(t, models.RoleCustomer, u.Roles)
	assert.NotEqual(t, strongPassword, u.PasswordHash)

	msgs := f.events.Topic(events.TopicUsers)
	require.Len(t, msgs, 1)
	assert.Equal(t, "1", msgs[0].Key)
}

func TestIdentityService_Register_Duplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	first := f.customer(t, "dup@example.com")

	_, err := f.identity.Register(ctx, RegisterInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "dup@example.com",
		Password:  "An0ther-Passw0rd",
	})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	stored, err := f.identity.GetUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayse", stored.FirstName)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)

	all, err := f.identity.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIdentityService_Register_Invalid(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "weak password", in: RegisterInput{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "password"}},
		{name: "bad email", in: RegisterInput{FirstName: "A", LastName: "B", Email: "not-an-email", Password: strongPassword}},
		{name: "missing first name", in: RegisterInput{LastName: "B", Email: "b@example.com", Password: strongPassword}},
		{name: "bad phone", in: RegisterInput{FirstName: "A", LastName: "B", Email: "c@example.com", Password: strongPassword, Phone: "call me"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.identity.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
		})
	}
}

func TestIdentityService_CreateUser_Roles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	staff, err := f.identity.CreateUser(ctx, RegisterInput{FirstName: "S", LastName: "T", Email: "staff@example.com", Password: strongPassword}, models.RoleStaff)
	require.NoError(t, err)
	assert.True(t, staff.Roles.Has(models.RoleStaff))

	plain, err := f.identity.CreateUser(ctx, RegisterInput{FirstName: "P", LastName: "L", Email: "plain@example.com", Password: strongPassword}, models.NoRoles)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, plain.Roles)
}

func TestIdentityService_UpdateUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "upd@example.com")
	f.customer(t, "taken@example.com")

	empty := ""
	name := "Zeynep"
	updated, err := f.identity.UpdateUser(ctx, u.ID, UpdateUserInput{FirstName: &name, LastName: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Zeynep", updated.FirstName)
	assert.Equal(t, "Yilmaz", updated.LastName)

	taken := "taken@example.com"
	_, err = f.identity.UpdateUser(ctx, u.ID, UpdateUserInput{Email: &taken})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	_, err = f.identity.UpdateUser(ctx, 999, UpdateUserInput{FirstName: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIdentityService_SignIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "login@example.com")
	disabled := f.customer(t, "off@example.com")
	off := false
	_, err := f.identity.UpdateUser(ctx, disabled.ID, UpdateUserInput{IsActive: &off})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "missing password", email: "login@example.com", want: apperr.ErrInvalidArgument},
		{name: "unknown email", email: "nobody@example.com", password: strongPassword, want: apperr.ErrNotFound},
		{name: "wrong password", email: "login@example.com", password: "Wr0ng-Password", want: apperr.ErrInvalidCredential},
		{name: "inactive", email: "off@example.com", password: strongPassword, want: apperr.ErrPermissionDenied},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			sess, err := f.identity.SignIn(ctx, tt.email, tt.password)
			assert.Nil(t, sess)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	sess, err := f.identity.SignIn(ctx, "login@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)

	claims, err := tokens.AccessClaimsFromToken(sess.AccessToken, f.identity.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, []string{"customer"}, claims.Roles)
	assert.Equal(t, tokens.Subject(u.ID), claims.Subject)
}

func TestIdentityService_Refresh_Rotates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "rot@example.com")

	sess, err := f.identity.SignIn(ctx, "rot@example.com", strongPassword)
	require.NoError(t, err)

	next, err := f.identity.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, next.RefreshToken)

	_, err = f.identity.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)

	_, err = f.identity.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)

	require.NoError(t, f.identity.SignOut(ctx, next.RefreshToken))
	_, err = f.identity.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}

func TestIdentityService_Refresh_Expired(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "exp@example.com")

	start := time.Now().UTC()
	f.identity.Now = func() time.Time { return start }
	f.identity.RefreshTTL = time.Minute
	sess, err := f.identity.SignIn(ctx, "exp@example.com", strongPassword)
	require.NoError(t, err)

	f.identity.Now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = f.identity.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}

func TestIdentityService_PasswordReset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "reset@example.com")
	sess, err := f.identity.SignIn(ctx, "reset@example.com", strongPassword)
	require.NoError(t, err)

	require.NoError(t, f.identity.RequestPasswordReset(ctx, PasswordResetRequest{Channel: models.ResetByEmail, Email: "reset@example.com"}))
	sent, ok := f.notifier.last()
	require.True(t, ok)
	assert.Equal(t, u.ID, sent.UserID)
	assert.Equal(t, "reset@example.com", sent.To)
	assert.NotEmpty(t, sent.Token)

	assert.ErrorIs(t, f.identity.ResetPassword(ctx, sent.Token, "weak"), apperr.ErrInvalidArgument)

	const newPassword = "N3w-Password!"
	require.NoError(t, f.identity.ResetPassword(ctx, sent.Token, newPassword))
	assert.ErrorIs(t, f.identity.ResetPassword(ctx, sent.Token, newPassword), apperr.ErrInvalidArgument)

	_, err = f.identity.SignIn(ctx, "reset@example.com", strongPassword)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredential)
	_, err = f.identity.SignIn(ctx, "reset@example.com", newPassword)
	require.NoError(t, err)

	_, err = f.identity.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}

func TestIdentityService_RequestPasswordReset_Channels(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  PasswordResetRequest
		want error
	}{
		{name: "unknown channel", req: PasswordResetRequest{Channel: "pigeon", Email: "x@example.com"}, want: apperr.ErrInvalidArgument},
		{name: "email channel without email", req: PasswordResetRequest{Channel: models.ResetByEmail, Phone: "+905551112233"}, want: apperr.ErrInvalidArgument},
		{name: "phone channel without phone", req: PasswordResetRequest{Channel: models.ResetByPhone, Email: "x@example.com"}, want: apperr.ErrInvalidArgument},
		{name: "no such account", req: PasswordResetRequest{Channel: models.ResetByEmail, Email: "ghost@example.com"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := f.identity.RequestPasswordReset(ctx, tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, ok := f.notifier.last()
	assert.False(t, ok)
}

func TestIdentityService_DeleteUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	u := f.customer(t, "bye@example.com")
	other := f.customer(t, "stays@example.com")
	item := f.menuItem(t, "Pide", 9.00)

	for _, owner := range []uint{u.ID, other.ID} {
		_, err := f.carts.AddCartItem(ctx, owner, item.ID, 2)
		require.NoError(t, err)
		order, err := f.orders.CreateOrder(ctx, owner, models.MoneyFromFloat(18))
		require.NoError(t, err)
		_, err = f.orders.CreateOrderItem(ctx, owner, OrderItemInput{OrderID: order.ID, ProductID: &item.ID, Quantity: 2})
		require.NoError(t, err)
	}

	require.NoError(t, f.identity.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, f.identity.DeleteUser(ctx, u.ID), apperr.ErrNotFound)

	_, err := f.identity.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	count := func(model any, where string, args ...any) int64 {
		var n int64
		require.NoError(t, f.repo.DB.Model(model).Where(where, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&models.Cart{}, "user_id = ?", u.ID))
	assert.Zero(t, count(&models.Order{}, "user_id = ?", u.ID))
	assert.Equal(t, int64(1), count(&models.CartItem{}, "1 = 1"))
	assert.Equal(t, int64(1), count(&models.OrderItem{}, "1 = 1"))

	assert.Equal(t, int64(1), count(&models.Cart{}, "user_id = ?", other.ID))
	assert.Equal(t, int64(1), count(&models.Order{}, "user_id = ?", other.ID))
}
