package models

import (
	"fmt"
	"math"
)

// Money is an amount in minor units (cents). Prices carry two decimal places.
type Money int64

const (
	// MaxMoney is the largest stored amount, 99,999,999.99: ten digits with
	// two decimal places.
	MaxMoney Money = 9_999_999_999

	// MaxQuantity bounds a single cart or order line.
	MaxQuantity = 10_000
)

// MoneyFromFloat rounds half away from zero to the nearest cent. Amounts
// beyond ±MaxMoney saturate one cent past the limit, so they stay out of
// range without overflowing.
func MoneyFromFloat(f float64) Money {
	c := math.Round(f * 100)
	switch {
	case math.IsNaN(c):
		return 0
	case c > float64(MaxMoney):
		return MaxMoney + 1
	case c < -float64(MaxMoney):
		return -MaxMoney - 1
	}
	return Money(c)
}

func (m Money) Float() float64 { return float64(m) / 100 }

func (m Money) Times(qty int) Money { return m * Money(qty) }

// Valid reports whether m is a positive amount within MaxMoney.
func (m Money) Valid() bool { return m > 0 && m <= MaxMoney }

// LineTotal prices qty units. ok is false when qty is outside
// 1..MaxQuantity or the total exceeds MaxMoney.
func (m Money) LineTotal(qty int) (total Money, ok bool) {
	if qty <= 0 || qty > MaxQuantity || !m.Valid() {
		return 0, false
	}
	total = m.Times(qty)
	return total, total <= MaxMoney
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
