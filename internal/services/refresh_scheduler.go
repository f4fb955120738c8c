package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"thaifolio/internal/logger"
	"thaifolio/internal/markethours"
)

// RefreshScheduler refreshes prices on a fixed interval while a market it
// tracks is open.
type RefreshScheduler struct {
	market   MarketServicer
	interval time.Duration
	always   bool
	isOpen   func(time.Time) bool
	now      func() time.Time
	log      *zap.SugaredLogger
}

// NewRefreshScheduler creates a scheduler. With always set, refreshes run
// regardless of market hours.
func NewRefreshScheduler(market MarketServicer, interval time.Duration, always bool) *RefreshScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &RefreshScheduler{
		market:   market,
		interval: interval,
		always:   always,
		isOpen:   markethours.IsOpen,
		now:      time.Now,
		log:      logger.Component("refresh_scheduler"),
	}
}

// Run blocks, ticking until ctx is done.
func (r *RefreshScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Infow("Refresh scheduler started", "interval", r.interval, "always", r.always)
	for {
		select {
		case <-ctx.Done():
			r.log.Infow("Refresh scheduler stopped")
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick runs one refresh if markets are open. A failed refresh leaves the
// portfolio untouched and is retried on the next tick.
func (r *RefreshScheduler) Tick(ctx context.Context) *RefreshResult {
	if !r.always && !r.isOpen(r.now()) {
		return &RefreshResult{Skipped: true}
	}
	tickCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	result, err := r.market.RefreshPrices(tickCtx)
	if err != nil {
		r.log.Warnw("Scheduled refresh failed", "error", err)
		return nil
	}
	return result
}
