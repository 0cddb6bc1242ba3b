package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/repo"
)

const passwordSpecials = "!@#$%^&*()-_=+"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	return v
}

// StrongPassword requires 10+ characters with upper, lower, digit and one of
// !@#$%^&*()-_=+.
func StrongPassword(pw string) error {
	if len([]rune(pw)) < 10 {
		return fmt.Errorf("password must be at least 10 characters: %w", apperr.ErrInvalidArgument)
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	switch {
	case !upper:
		return fmt.Errorf("password needs an uppercase letter: %w", apperr.ErrInvalidArgument)
	case !lower:
		return fmt.Errorf("password needs a lowercase letter: %w", apperr.ErrInvalidArgument)
	case !digit:
		return fmt.Errorf("password needs a digit: %w", apperr.ErrInvalidArgument)
	case !special:
		return fmt.Errorf("password needs one of %s: %w", passwordSpecials, apperr.ErrInvalidArgument)
	}
	return nil
}

func validPhone(p string) bool {
	if p == "" {
		return true
	}
	p = strings.TrimPrefix(p, "+")
	if len(p) < 7 || len(p) > 15 {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validateInput runs struct tags and reports the first failure as
// ErrInvalidArgument.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		if f.Tag() == "strongpassword" {
			return StrongPassword(fmt.Sprint(f.Value()))
		}
		return fmt.Errorf("%s failed %q: %w", lowerFirst(f.Field()), f.Tag(), apperr.ErrInvalidArgument)
	}
	return fmt.Errorf("%v: %w", err, apperr.ErrInvalidArgument)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// storeErr maps repository errors onto the shared taxonomy.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, apperr.ErrAlreadyExists)
	case errors.Is(err, repo.ErrLimitExceeded):
		return fmt.Errorf("%s: %s: %w", what, err, apperr.ErrInvalidArgument)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// checkAmount accepts positive amounts up to models.MaxMoney.
func checkAmount(m models.Money, what string) error {
	if m <= 0 {
		return fmt.Errorf("%s must be greater than zero: %w", what, apperr.ErrInvalidArgument)
	}
	if m > models.MaxMoney {
		return fmt.Errorf("%s must not exceed %s: %w", what, models.MaxMoney, apperr.ErrInvalidArgument)
	}
	return nil
}

// checkQuantity accepts 1..models.MaxQuantity.
func checkQuantity(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be more than zero: %w", apperr.ErrInvalidArgument)
	}
	if qty > models.MaxQuantity {
		return fmt.Errorf("quantity must not exceed %d: %w", models.MaxQuantity, apperr.ErrInvalidArgument)
	}
	return nil
}
