package model

// Owner identifies the marketplace user a record belongs to
type Owner struct {
	ID        uint   `json:"userID"`
	FirstName string `json:"userFirstName"`
	LastName  string `json:"userLastName"`
	Email     string `json:"userEmail"`
}

// Record is the contract every catalog collection element satisfies.
// The catalog engine is generic over this interface: it only needs an
// identity, a display name for searching, a category label for filtering,
// a base price for offer math and the soft-delete flag.
type Record interface {
	RecordID() uint
	DisplayName() string
	CategoryLabel() string
	BasePrice() float64
	IsDeleted() bool
}
