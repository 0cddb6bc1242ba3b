package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoles(t *testing.T) {
	t.Parallel()

	r := RoleCustomer.With(RoleStaff)

	assert.True(t, r.Has(RoleCustomer))
	assert.True(t, r.Has(RoleStaff))
	assert.False(t, r.Has(RoleAdmin))
	assert.False(t, r.Has(NoRoles))
	assert.True(t, r.Intersects(RoleAdmin|RoleStaff))
	assert.False(t, RoleCustomer.Intersects(RoleAdmin))
	assert.Equal(t, []string{"STAFF", "CUSTOMER"}, r.Names())
	assert.Equal(t, "STAFF|CUSTOMER", r.String())
	assert.Equal(t, "NONE", NoRoles.String())
	assert.Equal(t, RoleCustomer, r.Without(RoleStaff))
	assert.Equal(t, RoleAdmin|RoleCustomer, ParseRoles("admin", " Customer ", "owner"))
}

func TestMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want Money
		str  string
	}{
		{name: "exact", in: 12.50, want: 1250, str: "12.50"},
		{name: "round half up", in: 0.125, want: 13, str: "0.13"},
		{name: "float noise", in: 19.99, want: 1999, str: "19.99"},
		{name: "negative", in: -3.5, want: -350, str: "-3.50"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := MoneyFromFloat(tt.in)
			assert.Equal(t, tt.want, m)
			assert.Equal(t, tt.str, m.String())
		})
	}

	assert.Equal(t, Money(3750), MoneyFromFloat(12.50).Times(3))
	assert.InDelta(t, 62.50, MoneyFromFloat(12.50).Times(5).Float(), 1e-9)
}

func TestMoneyLimits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MaxMoney, MoneyFromFloat(99_999_999.99))
	assert.Equal(t, "99999999.99", MaxMoney.String())
	assert.Equal(t, MaxMoney+1, MoneyFromFloat(1e15))
	assert.Equal(t, MaxMoney+1, MoneyFromFloat(1e300))
	assert.Equal(t, -MaxMoney-1, MoneyFromFloat(-1e300))
	assert.False(t, MoneyFromFloat(1e15).Valid())
	assert.True(t, MaxMoney.Valid())
	assert.False(t, Money(0).Valid())

	tests := []struct {
		name  string
		price Money
		qty   int
		want  Money
		ok    bool
	}{
		{name: "regular", price: 1250, qty: 3, want: 3750, ok: true},
		{name: "max quantity", price: 1, qty: MaxQuantity, want: MaxQuantity, ok: true},
		{name: "quantity over limit", price: 1, qty: MaxQuantity + 1},
		{name: "zero quantity", price: 1250, qty: 0},
		{name: "total over limit", price: MaxMoney, qty: 2},
		{name: "price over limit", price: MaxMoney + 1, qty: 1},
		{name: "huge quantity", price: MoneyFromFloat(1e15), qty: 2_000_000_000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.price.LineTotal(tt.qty)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
