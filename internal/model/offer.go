package model

// Offer is an optional promotional override of a record's price. The backend
// may return several offers per record; the first one is treated as "the"
// offer, matching the behavior the dashboards have always shown.
type Offer struct {
	Name        string  `json:"offerName"`
	Description string  `json:"offerDescription"`
	NewPrice    float64 `json:"newPrice"`
	Active      bool    `json:"offerStatus"`
}
