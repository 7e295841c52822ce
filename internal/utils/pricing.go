package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Discount tier boundaries, in rental days. Tiers are mutually exclusive:
// the month tier wins for long rentals and discounts are never compounded.
const (
	weekTierDays  = 7
	monthTierDays = 30
)

// RentalDays returns the end-exclusive day count between two yyyy-mm-dd
// dates. A rental must span at least one day.
func RentalDays(startDate, endDate string) (int32, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %w", err)
	}

	days := int32(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 0, fmt.Errorf("end date must be after start date")
	}
	return days, nil
}

// PercentOfCents returns pct% of amount rounded to the nearest cent.
func PercentOfCents(amountCents, pct int32) int32 {
	return int32((int64(amountCents)*int64(pct) + 50) / 100)
}

// OwnerAmountCents computes the owner payout: price * days with the single
// applicable discount tier applied once. 7–29 days take the weekly discount,
// 30+ days the monthly one; the longer tier wins and they never stack.
func OwnerAmountCents(pricePerDayCents, days, discountWeekPct, discountMonthPct int32) int32 {
	base := int64(pricePerDayCents) * int64(days)

	var pct int32
	switch {
	case days >= monthTierDays:
		pct = discountMonthPct
	case days >= weekTierDays:
		pct = discountWeekPct
	}

	amount := (base*int64(100-pct) + 50) / 100
	if amount < 0 {
		amount = 0
	}
	return int32(amount)
}

// SubtotalCents is the undiscounted renter-facing base price.
func SubtotalCents(pricePerDayCents, days int32) int32 {
	return int32(int64(pricePerDayCents) * int64(days))
}

// ServiceFeeCents is the platform fee charged on top of the subtotal.
func ServiceFeeCents(subtotalCents, feePct int32) int32 {
	return PercentOfCents(subtotalCents, feePct)
}

// DepositCents is the refundable hold, a policy percentage of item value.
func DepositCents(itemValueCents, depositPct int32) int32 {
	return PercentOfCents(itemValueCents, depositPct)
}

// DepositSplitCents splits a deposit by the chosen deduction percentage.
// The two halves always sum to the deposit exactly: the deduction is rounded
// and the refund is the remainder.
func DepositSplitCents(depositCents, deductionPct int32) (deductionCents, refundCents int32) {
	deductionCents = PercentOfCents(depositCents, deductionPct)
	refundCents = depositCents - deductionCents
	return deductionCents, refundCents
}
