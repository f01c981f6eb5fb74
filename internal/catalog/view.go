package catalog

import "github.com/agrimart/agrimart-gateway/internal/model"

// Item is the serialization-ready projection of one enriched record.
type Item struct {
	Record         interface{}     `json:"record"`
	Offer          *model.Offer    `json:"offer,omitempty"`
	ImageRef       string          `json:"imageRef,omitempty"`
	Flags          map[string]bool `json:"flags,omitempty"`
	EffectivePrice float64         `json:"effectivePrice"`
	DiscountPct    int             `json:"discountPct,omitempty"`
}

// ViewPayload is the type-erased view of one catalog page, shared by every
// dashboard route regardless of record type.
type ViewPayload struct {
	Items      []Item   `json:"items"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	Categories []string `json:"categories"`
}
