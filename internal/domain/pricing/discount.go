package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Discount returns the discount amount the offer yields against the given
// reference price. Percentage offers take value percent of the price; fixed
// offers are capped at the price itself. The result is clamped to
// [0, price]. Pure function; price must be non-negative.
func Discount(price decimal.Decimal, o Offer) decimal.Decimal {
	var amount decimal.Decimal
	switch o.Type {
	case DiscountPercentage:
		amount = price.Mul(o.Value).Div(hundred)
	case DiscountFixed:
		amount = decimal.Min(o.Value, price)
	default:
		return zero
	}
	if amount.IsNegative() {
		return zero
	}
	if amount.GreaterThan(price) {
		return price
	}
	return amount
}

// BestOffer selects the single offer applied to a pricing computation: among
// the candidates active at now and matching the target, the one yielding the
// strictly greatest discount against refPrice. Comparison uses > so the first
// candidate in iteration order wins ties. Returns (nil, 0) when no offer
// matches or every match computes to a zero discount.
func BestOffer(target Target, candidates []Offer, refPrice decimal.Decimal, now time.Time) (*Offer, decimal.Decimal) {
	var (
		best         *Offer
		bestDiscount = zero
	)
	for i := range candidates {
		o := &candidates[i]
		if !o.ActiveAt(now) || !o.Matches(target) {
			continue
		}
		if d := Discount(refPrice, *o); d.GreaterThan(bestDiscount) {
			bestDiscount = d
			best = o
		}
	}
	return best, bestDiscount
}

// FinalPrice applies a discount amount to a price, floored at zero and
// rounded to two decimal places so percentage discounts cannot leak
// sub-cent amounts into responses.
func FinalPrice(price, discount decimal.Decimal) decimal.Decimal {
	final := price.Sub(discount)
	if final.IsNegative() {
		return zero
	}
	return final.Round(2)
}
