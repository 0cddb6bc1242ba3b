package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/models"
)

const dateLayout = "2006-01-02"

type args map[string]interface{}

func (a args) has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

func (a args) id(name string) (uint, error) {
	if !a.has(name) {
		return 0, fmt.Errorf("%s is required: %w", name, apperr.ErrInvalidArgument)
	}
	s := fmt.Sprint(a[name])
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%s %q is not a valid id: %w", name, s, apperr.ErrInvalidArgument)
	}
	return uint(n), nil
}

func (a args) optID(name string) (*uint, error) {
	if !a.has(name) {
		return nil, nil
	}
	id, err := a.id(name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (a args) str(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a args) optStr(name string) *string {
	s, ok := a[name].(string)
	if !ok {
		return nil
	}
	return &s
}

// nonEmptyStr is optStr that also drops blank values.
func (a args) nonEmptyStr(name string) *string {
	s := a.optStr(name)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func (a args) integer(name string) int {
	n, _ := a[name].(int)
	return n
}

func (a args) optInt(name string) *int {
	n, ok := a[name].(int)
	if !ok {
		return nil
	}
	return &n
}

func (a args) optBool(name string) *bool {
	b, ok := a[name].(bool)
	if !ok {
		return nil
	}
	return &b
}

func (a args) money(name string) models.Money {
	f, _ := a[name].(float64)
	return models.MoneyFromFloat(f)
}

func (a args) optMoney(name string) *models.Money {
	f, ok := a[name].(float64)
	if !ok {
		return nil
	}
	m := models.MoneyFromFloat(f)
	return &m
}

func (a args) optDate(name string) (*time.Time, error) {
	s := a.nonEmptyStr(name)
	if s == nil {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("%s must be formatted as YYYY-MM-DD: %w", name, apperr.ErrInvalidArgument)
	}
	return &d, nil
}

// roleFlags applies isAdmin/isStaff/isCustomer arguments on top of base.
// The second result is false when none of the flags was given.
func (a args) roleFlags(base models.Roles) (models.Roles, bool) {
	out, changed := base, false
	for _, f := range []struct {
		name string
		role models.Roles
	}{
		{"isAdmin", models.RoleAdmin},
		{"isStaff", models.RoleStaff},
		{"isCustomer", models.RoleCustomer},
	} {
		v := a.optBool(f.name)
		if v == nil {
			continue
		}
		changed = true
		if *v {
			out = out.With(f.role)
		} else {
			out = out.Without(f.role)
		}
	}
	return out, changed
}
