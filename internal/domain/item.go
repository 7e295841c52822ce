package domain

// Item is the listing row a rental is priced against. Listing management is
// owned elsewhere; this core only reads the pricing fields.
type Item struct {
	ID               int32  `json:"id"`
	OwnerID          int32  `json:"owner_id"`
	Name             string `json:"name"`
	PricePerDayCents int32  `json:"price_per_day_cents"`
	ValueCents       int32  `json:"value_cents"` // replacement value, deposit basis
	DiscountWeekPct  int32  `json:"discount_week_pct"`
	DiscountMonthPct int32  `json:"discount_month_pct"`
}
