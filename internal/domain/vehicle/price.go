package vehicle

import "github.com/shopspring/decimal"

// PriceQuote is a currency-tagged price issued by the pricing service.
type PriceQuote struct {
	Currency string
	Amount   decimal.Decimal
}

// Display formats the quote as the currency code followed by the amount,
// keeping the amount's own scale ("USD" and 20000.00 give "USD20000.00").
func (q PriceQuote) Display() string {
	var places int32
	if exp := q.Amount.Exponent(); exp < 0 {
		places = -exp
	}
	return q.Currency + q.Amount.StringFixed(places)
}
