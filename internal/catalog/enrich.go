package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/internal/model"
	"github.com/agrimart/agrimart-gateway/prometheus"
)

// Step is one best-effort enrichment lookup. A step writes only to the
// enriched wrapper, never to the record itself. Step failures degrade to an
// absent field; they are logged and counted, never surfaced to the user.
type Step[T model.Record] struct {
	Name string
	Run  func(ctx context.Context, rec T, enr *model.Enriched[T]) error
}

// Enricher attaches secondary data to records. All records of a collection
// are enriched concurrently; the join settles rather than failing fast, so
// one slow or broken lookup degrades only its own record.
type Enricher[T model.Record] struct {
	steps []Step[T]
	log   *zap.Logger
}

// NewEnricher creates an Enricher running the given steps per record.
func NewEnricher[T model.Record](log *zap.Logger, steps ...Step[T]) *Enricher[T] {
	return &Enricher[T]{steps: steps, log: log}
}

// Enrich runs every step against a single record. The result is the same
// for repeated calls against an unchanged backend: enrichment is additive
// and holds no hidden state.
func (e *Enricher[T]) Enrich(ctx context.Context, rec T) model.Enriched[T] {
	enr := model.Enriched[T]{Record: rec}
	for _, step := range e.steps {
		if err := step.Run(ctx, rec, &enr); err != nil {
			prometheus.RecordEnrichmentDegraded(step.Name)
			e.log.Warn("Enrichment step degraded",
				zap.String("step", step.Name),
				zap.Uint("record_id", rec.RecordID()),
				zap.Error(err))
		}
	}
	return enr
}

// EnrichAll fans out over the collection, enriching every record
// concurrently. Each goroutine writes only its own slot, and the join waits
// for all of them regardless of individual step failures.
func (e *Enricher[T]) EnrichAll(ctx context.Context, recs []T) []model.Enriched[T] {
	out := make([]model.Enriched[T], len(recs))

	var wg sync.WaitGroup
	for i, rec := range recs {
		wg.Add(1)
		go func(i int, rec T) {
			defer wg.Done()
			out[i] = e.Enrich(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	return out
}
