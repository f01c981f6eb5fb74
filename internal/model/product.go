package model

// Product represents one marketplace product listing as returned by the
// backend (farmer, supermarket and seed/fertilizer catalogs share the shape)
type Product struct {
	ID          uint    `json:"productID"`
	Name        string  `json:"productName"`
	Price       float64 `json:"productPrice"`
	Quantity    int     `json:"productQuantity"`
	Description string  `json:"productDescription"`
	AddedDate   string  `json:"addedDate"`
	Category    string  `json:"productCategory"`
	Deleted     bool    `json:"deleteStatus"`
	Owner       Owner   `json:"user"`
}

func (p Product) RecordID() uint        { return p.ID }
func (p Product) DisplayName() string   { return p.Name }
func (p Product) CategoryLabel() string { return p.Category }
func (p Product) BasePrice() float64    { return p.Price }
func (p Product) IsDeleted() bool       { return p.Deleted }
