package backend

// Endpoint describes one backend collection route. The backend wraps every
// array in an envelope whose key name differs per route, so the key is
// configured here rather than assumed.
type Endpoint struct {
	// Path is the route relative to the backend base URL.
	Path string

	// ResponseKey is the envelope field the collection is wrapped under.
	ResponseKey string

	// OwnerScoped marks routes that return only the calling user's records
	// and therefore require a session identity.
	OwnerScoped bool
}

// Collection endpoints consumed by the dashboards.
var (
	FarmerProducts = Endpoint{
		Path:        "farmer/viewProducts",
		ResponseKey: "farmerGetProducts",
		OwnerScoped: true,
	}
	SupermarketProducts = Endpoint{
		Path:        "supermarket/viewProducts",
		ResponseKey: "supermarketGetProducts",
		OwnerScoped: true,
	}
	MarketProducts = Endpoint{
		Path:        "consumer/viewAllProducts",
		ResponseKey: "allProducts",
	}
	ConsumerOrders = Endpoint{
		Path:        "consumer/viewOrders",
		ResponseKey: "consumerGetOrders",
		OwnerScoped: true,
	}
	FarmerOrders = Endpoint{
		Path:        "farmer/viewConsumerOrders",
		ResponseKey: "farmerGetOrders",
		OwnerScoped: true,
	}
	TrainerHirings = Endpoint{
		Path:        "trainer/viewHirings",
		ResponseKey: "trainerGetHirings",
		OwnerScoped: true,
	}
)

// Secondary lookup endpoints used during enrichment.
var (
	ProductOffers = Endpoint{
		Path:        "farmer/viewOffers",
		ResponseKey: "farmerGetOffers",
	}
	ProductImage = Endpoint{
		Path: "farmer/productImage",
	}
	HiringImage = Endpoint{
		Path: "trainer/hiringImage",
	}
)
