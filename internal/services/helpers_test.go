package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"thaifolio/internal/ledger"
	"thaifolio/internal/storage"
	"thaifolio/internal/testutil"

	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*gorm.DB, *storage.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return db, storage.New(db)
}

// seqIDs hands out 100, 101, ... so tests can predict new asset ids.
type seqIDs struct {
	mu   sync.Mutex
	next int64
}

func (s *seqIDs) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == 0 {
		s.next = 100
	}
	id := s.next
	s.next++
	return id
}

func newTestEngine() *ledger.Engine {
	return ledger.NewEngine(ledger.DefaultPolicy(), &seqIDs{})
}

// tickingClock advances one second per call.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// failingStore is a Store whose every call fails.
type failingStore struct{ *storage.Store }

var errStoreDown = errors.New("store down")

func (failingStore) GetAssets(context.Context) ([]ledger.Asset, error) { return nil, errStoreDown }
func (failingStore) SaveAssets(context.Context, []ledger.Asset) error  { return errStoreDown }
