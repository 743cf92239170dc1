package domain

import "math"

// MaxAmount caps every single price component accepted from a client.
const MaxAmount int64 = 1_000_000_000_000

// ValidAmount reports whether a is within [0, MaxAmount].
func ValidAmount(a int64) bool {
	return a >= 0 && a <= MaxAmount
}

// AddAmounts sums non-negative amounts, failing instead of wrapping.
func AddAmounts(amounts ...int64) (int64, error) {
	var total int64
	for _, a := range amounts {
		if a < 0 || a > math.MaxInt64-total {
			return 0, ErrInvalidAmount
		}
		total += a
	}
	return total, nil
}

// MulAmount multiplies a non-negative rate by a non-negative count, failing instead of wrapping.
func MulAmount(rate, n int64) (int64, error) {
	if rate < 0 || n < 0 {
		return 0, ErrInvalidAmount
	}
	if rate != 0 && n > math.MaxInt64/rate {
		return 0, ErrInvalidAmount
	}
	return rate * n, nil
}

// BookingPrice returns the rental fee and total for a booking. A zero fee is
// derived from the day rate.
func BookingPrice(fee int64, l *Listing, r DateRange) (int64, int64, error) {
	if fee == 0 {
		var err error
		if fee, err = MulAmount(l.DayRate, r.Days()); err != nil {
			return 0, 0, err
		}
	}
	total, err := AddAmounts(fee, l.Deposit, l.ShippingFee)
	if err != nil {
		return 0, 0, err
	}
	return fee, total, nil
}
