// Package notify keeps notification-style collections fresh by refetching
// them on a fixed interval, independent of user action.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/prometheus"
)

// Poller re-runs a refresh function on a fixed interval until its context
// is cancelled, so no timer outlives the surface that owns it.
type Poller struct {
	collection string
	interval   time.Duration
	refresh    func(ctx context.Context) error
	log        *zap.Logger
}

// New creates a Poller for the named collection.
func New(collection string, interval time.Duration, refresh func(ctx context.Context) error, log *zap.Logger) *Poller {
	return &Poller{
		collection: collection,
		interval:   interval,
		refresh:    refresh,
		log:        log,
	}
}

// Run polls until ctx is cancelled. The first refresh fires immediately;
// failures are logged and counted but never stop the loop.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("Notification poller started",
		zap.String("collection", p.collection),
		zap.Duration("interval", p.interval))

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Notification poller stopped",
				zap.String("collection", p.collection))
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.refresh(ctx); err != nil {
		prometheus.RecordPollerRun(p.collection, "error")
		p.log.Warn("Notification poll failed",
			zap.String("collection", p.collection),
			zap.Error(err))
		return
	}
	prometheus.RecordPollerRun(p.collection, "ok")
}
