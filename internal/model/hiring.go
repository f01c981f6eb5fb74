package model

// HiringListing represents one trainer / seed-and-fertilizer hiring service
// listing as returned by the backend
type HiringListing struct {
	ID             uint    `json:"hiringID"`
	ServiceName    string  `json:"serviceName"`
	Rate           float64 `json:"serviceRate"`
	DurationMonths int     `json:"serviceDuration"`
	Description    string  `json:"serviceDescription"`
	PostedDate     string  `json:"postedDate"`
	Category       string  `json:"serviceCategory"`
	Deleted        bool    `json:"deleteStatus"`
	Owner          Owner   `json:"user"`
}

func (h HiringListing) RecordID() uint        { return h.ID }
func (h HiringListing) DisplayName() string   { return h.ServiceName }
func (h HiringListing) CategoryLabel() string { return h.Category }
func (h HiringListing) BasePrice() float64    { return h.Rate }
func (h HiringListing) IsDeleted() bool       { return h.Deleted }
