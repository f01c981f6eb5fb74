package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agrimart/agrimart-gateway/internal/model"
)

// OfferLookup fetches the promotional offer for one record id; nil means no
// offer exists.
type OfferLookup func(ctx context.Context, recordID uint) (*model.Offer, error)

// ImageLookup fetches the image blob and content type for one record id.
type ImageLookup func(ctx context.Context, recordID uint) ([]byte, string, error)

// OfferCache is the subset of the redis cache the offer step uses. A nil
// cache disables caching; cache failures fall through to a direct lookup.
type OfferCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
}

// OfferStep attaches "the" offer to each record, consulting the cache first.
// Cached entries round-trip nil offers as JSON null, so a known "no offer"
// also skips the backend lookup.
func OfferStep[T model.Record](collection string, lookup OfferLookup, cch OfferCache, ttl time.Duration) Step[T] {
	return Step[T]{
		Name: "offer",
		Run: func(ctx context.Context, rec T, enr *model.Enriched[T]) error {
			key := fmt.Sprintf("%s:offer:%d", collection, rec.RecordID())

			if cch != nil {
				if data, err := cch.Get(ctx, key); err == nil {
					var offer *model.Offer
					if json.Unmarshal(data, &offer) == nil {
						enr.Offer = offer
						return nil
					}
				}
			}

			offer, err := lookup(ctx, rec.RecordID())
			if err != nil {
				return err
			}
			enr.Offer = offer

			if cch != nil {
				if data, err := json.Marshal(offer); err == nil {
					// cache write failures never block enrichment
					_ = cch.Set(ctx, key, data, ttl)
				}
			}
			return nil
		},
	}
}

// ImageStep attaches an opaque image handle built from the fetched blob.
func ImageStep[T model.Record](lookup ImageLookup) Step[T] {
	return Step[T]{
		Name: "image",
		Run: func(ctx context.Context, rec T, enr *model.Enriched[T]) error {
			data, contentType, err := lookup(ctx, rec.RecordID())
			if err != nil {
				return err
			}
			enr.ImageRef = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
			return nil
		},
	}
}

// FlagStep derives per-record booleans locally once the remote lookups have
// run. It is declared last in a step list so it can see their results.
func FlagStep[T model.Record](derive func(rec T, enr *model.Enriched[T]) map[string]bool) Step[T] {
	return Step[T]{
		Name: "flags",
		Run: func(ctx context.Context, rec T, enr *model.Enriched[T]) error {
			enr.Flags = derive(rec, enr)
			return nil
		},
	}
}
