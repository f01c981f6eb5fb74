package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/internal/backend"
	"github.com/agrimart/agrimart-gateway/internal/catalog"
	"github.com/agrimart/agrimart-gateway/internal/handler"
	"github.com/agrimart/agrimart-gateway/internal/model"
	"github.com/agrimart/agrimart-gateway/pkg/config"
)

// buildDashboards wires one catalog engine per dashboard screen. Every
// screen is the same generic engine configured with its endpoint, its
// enrichment steps and its mutation resource.
func buildDashboards(client *backend.Client, cch catalog.OfferCache, cfg *config.Config, log *zap.Logger) map[string]handler.Dashboard {
	return map[string]handler.Dashboard{
		"farmer-products":      productEngine("farmer-products", backend.FarmerProducts, "farmer/products", productGuard, client, cch, cfg, log),
		"supermarket-products": productEngine("supermarket-products", backend.SupermarketProducts, "supermarket/products", productGuard, client, cch, cfg, log),
		"market-products":      productEngine("market-products", backend.MarketProducts, "products", readOnlyGuard[model.Product], client, cch, cfg, log),
		"consumer-orders":      orderEngine("consumer-orders", backend.ConsumerOrders, "consumer/orders", client, cfg, log),
		"farmer-orders":        orderEngine("farmer-orders", backend.FarmerOrders, "farmer/consumerOrders", client, cfg, log),
		"trainer-hirings":      hiringEngine("trainer-hirings", backend.TrainerHirings, "trainer/hirings", client, cfg, log),
	}
}

func productEngine(name string, ep backend.Endpoint, resource string, guard catalog.Guard[model.Product], client *backend.Client, cch catalog.OfferCache, cfg *config.Config, log *zap.Logger) *catalog.Engine[model.Product] {
	enricher := catalog.NewEnricher(log,
		catalog.OfferStep[model.Product](name, func(ctx context.Context, id uint) (*model.Offer, error) {
			return client.FetchOffer(ctx, backend.ProductOffers, id)
		}, cch, cfg.Cache.OfferTTL),
		catalog.ImageStep[model.Product](func(ctx context.Context, id uint) ([]byte, string, error) {
			return client.FetchImage(ctx, backend.ProductImage, id)
		}),
		catalog.FlagStep(func(rec model.Product, enr *model.Enriched[model.Product]) map[string]bool {
			return map[string]bool{
				"hasOffer": enr.Offer != nil && enr.Offer.Active,
				"inStock":  rec.Quantity > 0,
			}
		}),
	)

	return catalog.NewEngine(catalog.EngineConfig[model.Product]{
		Name: name,
		Source: func(ctx context.Context) ([]model.Product, error) {
			return backend.FetchCollection[model.Product](ctx, client, ep)
		},
		Enricher:    enricher,
		Mutator:     mutator(client, resource),
		Guard:       guard,
		PageSize:    cfg.Engine.PageSize,
		OwnerScoped: ep.OwnerScoped,
		SessionTTL:  cfg.Engine.SessionTTL,
		Log:         log,
	})
}

func orderEngine(name string, ep backend.Endpoint, resource string, client *backend.Client, cfg *config.Config, log *zap.Logger) *catalog.Engine[model.Order] {
	enricher := catalog.NewEnricher(log,
		catalog.FlagStep(func(rec model.Order, enr *model.Enriched[model.Order]) map[string]bool {
			return map[string]bool{
				"confirmed": rec.Status == model.OrderConfirmed,
				"paid":      rec.Status == model.OrderPaid,
				"terminal":  rec.Status.Terminal(),
			}
		}),
	)

	return catalog.NewEngine(catalog.EngineConfig[model.Order]{
		Name: name,
		Source: func(ctx context.Context) ([]model.Order, error) {
			return backend.FetchCollection[model.Order](ctx, client, ep)
		},
		Enricher: enricher,
		Mutator:  mutator(client, resource),
		Guard: func(rec model.Order, action model.Action) error {
			_, err := rec.Status.Next(action)
			return err
		},
		PageSize:    cfg.Engine.PageSize,
		OwnerScoped: ep.OwnerScoped,
		SessionTTL:  cfg.Engine.SessionTTL,
		Log:         log,
	})
}

func hiringEngine(name string, ep backend.Endpoint, resource string, client *backend.Client, cfg *config.Config, log *zap.Logger) *catalog.Engine[model.HiringListing] {
	enricher := catalog.NewEnricher(log,
		catalog.ImageStep[model.HiringListing](func(ctx context.Context, id uint) ([]byte, string, error) {
			return client.FetchImage(ctx, backend.HiringImage, id)
		}),
	)

	return catalog.NewEngine(catalog.EngineConfig[model.HiringListing]{
		Name: name,
		Source: func(ctx context.Context) ([]model.HiringListing, error) {
			return backend.FetchCollection[model.HiringListing](ctx, client, ep)
		},
		Enricher:    enricher,
		Mutator:     mutator(client, resource),
		Guard:       deleteOnlyGuard[model.HiringListing],
		PageSize:    cfg.Engine.PageSize,
		OwnerScoped: ep.OwnerScoped,
		SessionTTL:  cfg.Engine.SessionTTL,
		Log:         log,
	})
}

// mutator binds a backend resource to the engine's Mutator contract.
func mutator(client *backend.Client, resource string) catalog.Mutator {
	return func(ctx context.Context, id uint, action model.Action) error {
		return client.Dispatch(ctx, resource, id, action, mutationFields(action))
	}
}

// mutationFields returns the field values each action sets server-side.
func mutationFields(action model.Action) map[string]interface{} {
	switch action {
	case model.ActionDelete:
		return map[string]interface{}{"deleteStatus": true}
	case model.ActionConfirm:
		return map[string]interface{}{"orderStatus": string(model.OrderConfirmed)}
	case model.ActionReject:
		return map[string]interface{}{"orderStatus": string(model.OrderRejected)}
	case model.ActionPay:
		return map[string]interface{}{"orderStatus": string(model.OrderPaid)}
	}
	return nil
}

// productGuard allows only deletion; products have no lifecycle transitions.
func productGuard(rec model.Product, action model.Action) error {
	return deleteOnlyGuard(rec, action)
}

func deleteOnlyGuard[T model.Record](_ T, action model.Action) error {
	if action != model.ActionDelete {
		return &backend.ValidationError{Field: "action", Message: "not supported for this collection"}
	}
	return nil
}

// readOnlyGuard rejects every mutation; used for the shared market catalog.
func readOnlyGuard[T model.Record](_ T, _ model.Action) error {
	return &backend.ValidationError{Field: "action", Message: "collection is read-only"}
}
