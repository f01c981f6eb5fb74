package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/internal/model"
	"github.com/agrimart/agrimart-gateway/pkg/session"
	"github.com/agrimart/agrimart-gateway/prometheus"
)

// ErrUnknownRecord is returned when a mutation targets a record that is not
// in the current collection.
var ErrUnknownRecord = errors.New("unknown record")

// StaleViewError reports a mutation that was applied remotely while the
// follow-up refetch failed. The action is committed on the backend; only the
// local view may lag behind it.
type StaleViewError struct {
	Err error
}

func (e *StaleViewError) Error() string {
	return fmt.Sprintf("mutation applied but view refresh failed: %v", e.Err)
}

func (e *StaleViewError) Unwrap() error { return e.Err }

// defaultSessionTTL bounds how long idle per-user state is kept.
const defaultSessionTTL = 30 * time.Minute

// Source loads the raw collection from the remote backend.
type Source[T model.Record] func(ctx context.Context) ([]T, error)

// Mutator applies one action to one record remotely.
type Mutator func(ctx context.Context, id uint, action model.Action) error

// Guard vets an action against a record's current state before any network
// I/O, enforcing the lifecycle state machine locally.
type Guard[T model.Record] func(rec T, action model.Action) error

// EngineConfig wires one dashboard collection into an Engine.
type EngineConfig[T model.Record] struct {
	Name     string
	Source   Source[T]
	Enricher *Enricher[T]
	Mutator  Mutator
	Guard    Guard[T]
	PageSize int

	// OwnerScoped marks collections the backend filters by the requesting
	// user. Their records are cached per user id and never served to
	// another identity.
	OwnerScoped bool

	// SessionTTL bounds how long idle per-user collections and view state
	// survive before eviction. Zero selects the default.
	SessionTTL time.Duration

	Log *zap.Logger
}

// collectionState is one cached collection. Owner-scoped engines keep one
// per user id; shared engines keep a single slot.
type collectionState[T model.Record] struct {
	loaded     bool
	collection []model.Enriched[T]
	categories []string
	lastSeen   time.Time
}

// viewState is the filter and page owned by one user's dashboard surface.
// No other identity can read or move it.
type viewState struct {
	filter   FilterState
	page     int
	lastSeen time.Time
}

// Engine owns one enriched collection per identity together with per-user
// filter and page state. It is the generic replacement for the
// fetch/enrich/filter/paginate logic every dashboard screen used to
// duplicate.
type Engine[T model.Record] struct {
	name        string
	source      Source[T]
	enricher    *Enricher[T]
	mutate      Mutator
	guard       Guard[T]
	pageSize    int
	ownerScoped bool
	sessionTTL  time.Duration
	log         *zap.Logger

	mu    sync.Mutex
	colls map[uint]*collectionState[T]
	views map[uint]*viewState
}

// NewEngine creates an Engine from its configuration.
func NewEngine[T model.Record](cfg EngineConfig[T]) *Engine[T] {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Engine[T]{
		name:        cfg.Name,
		source:      cfg.Source,
		enricher:    cfg.Enricher,
		mutate:      cfg.Mutator,
		guard:       cfg.Guard,
		pageSize:    cfg.PageSize,
		ownerScoped: cfg.OwnerScoped,
		sessionTTL:  ttl,
		log:         cfg.Log,
		colls:       make(map[uint]*collectionState[T]),
		views:       make(map[uint]*viewState),
	}
}

// collKey returns the slot the requesting identity's records live under.
// Shared collections use a single slot for everyone.
func (g *Engine[T]) collKey(ctx context.Context) uint {
	if !g.ownerScoped {
		return 0
	}
	if id, ok := session.FromContext(ctx); ok {
		return id.UserID
	}
	return 0
}

// viewKey returns the slot the requesting identity's filter and page live
// under. View state is per user even when the collection is shared.
func viewKey(ctx context.Context) uint {
	if id, ok := session.FromContext(ctx); ok {
		return id.UserID
	}
	return 0
}

// coll returns the collection slot for key, creating it when absent.
// Caller holds the lock.
func (g *Engine[T]) coll(key uint) *collectionState[T] {
	c, ok := g.colls[key]
	if !ok {
		c = &collectionState[T]{}
		g.colls[key] = c
	}
	return c
}

// view returns the view slot for key, creating it when absent.
// Caller holds the lock.
func (g *Engine[T]) view(key uint) *viewState {
	v, ok := g.views[key]
	if !ok {
		v = &viewState{page: 1}
		g.views[key] = v
	}
	return v
}

// evictStale drops per-user state not touched within the session TTL.
// Caller holds the lock.
func (g *Engine[T]) evictStale(now time.Time) {
	for key, c := range g.colls {
		if now.Sub(c.lastSeen) > g.sessionTTL {
			delete(g.colls, key)
		}
	}
	for key, v := range g.views {
		if now.Sub(v.lastSeen) > g.sessionTTL {
			delete(g.views, key)
		}
	}
}

// Loaded reports whether the requesting identity's collection has been
// fetched and is still resident.
func (g *Engine[T]) Loaded(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.evictStale(time.Now())
	c, ok := g.colls[g.collKey(ctx)]
	return ok && c.loaded
}

// Refresh refetches and re-enriches the requesting identity's collection,
// then recomputes its category set. The fetch and enrichment run outside the
// lock; a cancelled context never applies its stale result.
func (g *Engine[T]) Refresh(ctx context.Context) error {
	records, err := g.source(ctx)
	if err != nil {
		prometheus.RecordCatalogRefresh(g.name, "error")
		return err
	}

	enriched := g.enricher.EnrichAll(ctx, records)
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now()
	g.mu.Lock()
	g.evictStale(now)
	c := g.coll(g.collKey(ctx))
	c.collection = enriched
	c.categories = ExtractCategories(enriched)
	c.loaded = true
	c.lastSeen = now
	g.mu.Unlock()

	prometheus.RecordCatalogRefresh(g.name, "ok")
	g.log.Info("Catalog refreshed",
		zap.String("collection", g.name),
		zap.Int("records", len(enriched)))
	return nil
}

// EnsureLoaded fetches the requesting identity's collection on first use.
func (g *Engine[T]) EnsureLoaded(ctx context.Context) error {
	if g.Loaded(ctx) {
		return nil
	}
	return g.Refresh(ctx)
}

// Snapshot applies the request's filter state and page to the caller's own
// view slot and returns the resulting page in its serialization-ready form.
// A filter change wins over the requested page and resets it to 1. The whole
// operation holds the lock, so concurrent requests from different users
// cannot interleave their view state.
func (g *Engine[T]) Snapshot(ctx context.Context, f FilterState, page int) ViewPayload {
	now := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.evictStale(now)

	v := g.view(viewKey(ctx))
	if v.filter != f {
		v.filter = f
		v.page = 1
	} else {
		if page < 1 {
			page = 1
		}
		v.page = page
	}
	v.lastSeen = now

	c := g.coll(g.collKey(ctx))
	c.lastSeen = now

	filtered := ApplyFilters(c.collection, v.filter)
	pg := Paginate(filtered, v.page, g.pageSize)

	items := make([]Item, 0, len(pg.Items))
	for _, enr := range pg.Items {
		items = append(items, Item{
			Record:         enr.Record,
			Offer:          enr.Offer,
			ImageRef:       enr.ImageRef,
			Flags:          enr.Flags,
			EffectivePrice: enr.EffectivePrice(),
			DiscountPct:    enr.DiscountPct(),
		})
	}
	return ViewPayload{
		Items:      items,
		Page:       pg.PageNumber,
		TotalPages: pg.TotalPages,
		Categories: c.categories,
	}
}

// Dispatch applies one user-triggered action to one record in the caller's
// collection. Lifecycle transitions go to the backend and then refetch from
// the source of truth; delete splices the record out optimistically and
// rolls the splice back when the remote call fails.
func (g *Engine[T]) Dispatch(ctx context.Context, id uint, action model.Action) error {
	key := g.collKey(ctx)

	g.mu.Lock()
	c := g.coll(key)
	idx := indexOf(c.collection, id)
	if idx < 0 {
		g.mu.Unlock()
		return ErrUnknownRecord
	}
	rec := c.collection[idx].Record

	if g.guard != nil {
		if err := g.guard(rec, action); err != nil {
			g.mu.Unlock()
			return err
		}
	}

	if action != model.ActionDelete {
		g.mu.Unlock()
		if err := g.mutate(ctx, id, action); err != nil {
			return err
		}
		if err := g.Refresh(ctx); err != nil {
			// the mutation is committed; only the view is behind
			return &StaleViewError{Err: err}
		}
		return nil
	}

	snapshot := c.collection
	spliced := make([]model.Enriched[T], 0, len(snapshot)-1)
	spliced = append(spliced, snapshot[:idx]...)
	spliced = append(spliced, snapshot[idx+1:]...)
	c.collection = spliced
	c.categories = ExtractCategories(spliced)
	g.mu.Unlock()

	if err := g.mutate(ctx, id, action); err != nil {
		g.mu.Lock()
		restored := g.coll(key)
		restored.collection = snapshot
		restored.categories = ExtractCategories(snapshot)
		restored.loaded = true
		g.mu.Unlock()
		g.log.Warn("Delete rolled back after remote failure",
			zap.String("collection", g.name),
			zap.Uint("record_id", id),
			zap.Error(err))
		return err
	}
	return nil
}

// indexOf returns the index of the record with the given id, or -1 when
// absent.
func indexOf[T model.Record](collection []model.Enriched[T], id uint) int {
	for i, r := range collection {
		if r.Record.RecordID() == id {
			return i
		}
	}
	return -1
}
