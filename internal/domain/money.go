package domain

import "github.com/shopspring/decimal"

// Money values are stored as numeric(14, 2): two decimal places and twelve
// integer digits.
const MoneyPlaces = 2

var moneyLimit = decimal.New(1, 12)

// checkMoney records a validation problem when d does not fit the stored
// money column.
func checkMoney(v *validator, field string, d decimal.Decimal) {
	switch {
	case !d.Equal(d.Round(MoneyPlaces)):
		v.add(field, "at most 2 decimal places")
	case d.Abs().GreaterThanOrEqual(moneyLimit):
		v.add(field, "must be less than 1000000000000")
	}
}
