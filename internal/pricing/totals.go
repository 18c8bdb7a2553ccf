package pricing

import "poolquote/internal/domain"

// Subtotal sums line totals as stored. Line totals are the front end's
// quantity × unit price contract and are trusted here, not recomputed.
func Subtotal(items []domain.QuoteItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.TotalPrice
	}
	return sum
}

// ApplyDiscount applies a percentage discount and then a flat amount,
// flooring the result at zero. Both discounts may be set at once.
func ApplyDiscount(subtotal, percent, amount float64) float64 {
	total := subtotal - subtotal*percent/100 - amount
	if total < 0 {
		return 0
	}
	return total
}
