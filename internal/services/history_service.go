package services

import (
	"context"
	"time"

	"thaifolio/internal/logger"
	"thaifolio/internal/models"
	"thaifolio/internal/pagination"
	"thaifolio/internal/valuation"
)

// Default history caps.
const (
	DefaultHistoryMaxPoints = 50
	DefaultDailyMaxPoints   = 365
)

// historyService records bounded real-time and daily valuation history.
type historyService struct {
	store     Store
	maxPoints int
	maxDaily  int
	loc       *time.Location
}

// NewHistoryService creates a new HistoryServicer. Days are cut in loc;
// nil means local time.
func NewHistoryService(store Store, maxPoints, maxDaily int, loc *time.Location) HistoryServicer {
	if maxPoints <= 0 {
		maxPoints = DefaultHistoryMaxPoints
	}
	if maxDaily <= 0 {
		maxDaily = DefaultDailyMaxPoints
	}
	if loc == nil {
		loc = time.Local
	}
	return &historyService{store: store, maxPoints: maxPoints, maxDaily: maxDaily, loc: loc}
}

// Record appends a real-time point and upserts today's daily point, then
// trims both series. Failures are logged, never returned.
func (s *historyService) Record(ctx context.Context, at time.Time, b valuation.Breakdown) {
	cash := b.USDWalletsTHB.Add(b.THBWalletsTHB)
	log := logger.Get()

	if err := s.store.AppendHistoryPoint(ctx, models.ValuationPoint{
		RecordedAt:     at.UTC(),
		Value:          b.GrandTotalTHB,
		InvestmentsTHB: b.InvestmentsTHB,
		CashTHB:        cash,
	}); err != nil {
		log.Warnw("Failed to append history point", "error", err)
		return
	}
	if err := s.store.TrimHistory(ctx, s.maxPoints); err != nil {
		log.Warnw("Failed to trim history", "error", err)
	}

	day := models.DailyValuation{
		Date:           at.In(s.loc).Format("2006-01-02"),
		Value:          b.GrandTotalTHB,
		InvestmentsTHB: b.InvestmentsTHB,
		CashTHB:        cash,
		UpdatedAt:      at,
	}
	if err := s.store.SaveDailyPoint(ctx, day); err != nil {
		log.Warnw("Failed to save daily point", "date", day.Date, "error", err)
		return
	}
	if err := s.store.TrimDailyHistory(ctx, s.maxDaily); err != nil {
		log.Warnw("Failed to trim daily history", "error", err)
	}
}

// RealTime returns the real-time series, oldest first.
func (s *historyService) RealTime(ctx context.Context) ([]models.ValuationPoint, error) {
	return s.store.GetHistory(ctx)
}

// List returns a page of real-time points, newest first.
func (s *historyService) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.ValuationPoint], error) {
	return s.store.ListHistory(ctx, page)
}

// Daily returns the daily series, oldest first.
func (s *historyService) Daily(ctx context.Context) ([]models.DailyValuation, error) {
	return s.store.GetDailyHistory(ctx)
}
