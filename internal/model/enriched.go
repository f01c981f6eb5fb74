package model

import "math"

// Enriched is a record augmented with best-effort secondary data. Enrichment
// is additive: the embedded record is never mutated, and absent fields mean
// the corresponding lookup failed or returned nothing.
type Enriched[T Record] struct {
	Record T `json:"record"`

	// Offer is the active promotional price override, nil when none exists
	// or the lookup failed.
	Offer *Offer `json:"offer,omitempty"`

	// ImageRef is an opaque local handle to the record's image (a data URI
	// built from the fetched blob); empty when no image is available.
	ImageRef string `json:"imageRef,omitempty"`

	// Flags holds derived per-record booleans (hasOffer, confirmed, ...).
	Flags map[string]bool `json:"flags,omitempty"`
}

// EffectivePrice returns the price the dashboard displays: the offer price
// when an active offer is present, else the record's base price.
func (e Enriched[T]) EffectivePrice() float64 {
	if e.Offer != nil && e.Offer.Active {
		return e.Offer.NewPrice
	}
	return e.Record.BasePrice()
}

// DiscountPct returns the rounded percentage discount the offer grants over
// the base price. Zero when there is no active offer or the base price is
// not positive.
func (e Enriched[T]) DiscountPct() int {
	base := e.Record.BasePrice()
	if e.Offer == nil || !e.Offer.Active || base <= 0 {
		return 0
	}
	return int(math.Round((base - e.Offer.NewPrice) / base * 100))
}
