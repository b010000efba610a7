package retry

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// IdempotencyStore remembers the result of an operation keyed by an
// idempotency key for a bounded TTL, so a caller that retries the same
// logical request (e.g. after a transport timeout) observes the original
// result instead of re-executing a side effect.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	ttl     time.Duration
	logger  *zap.Logger

	scheduler gocron.Scheduler
}

type idempotencyEntry struct {
	result    any
	err       error
	expiresAt time.Time
}

// NewIdempotencyStore constructs a store with the given entry TTL.
func NewIdempotencyStore(ttl time.Duration, logger *zap.Logger) *IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotencyStore{entries: make(map[string]idempotencyEntry), ttl: ttl, logger: logger}
}

// Get returns the remembered result for key, if present and unexpired.
func (s *IdempotencyStore) Get(key string) (any, error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil, false
	}
	return entry.result, entry.err, true
}

// Put remembers result/err for key until the store's TTL elapses.
func (s *IdempotencyStore) Put(key string, result any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = idempotencyEntry{result: result, err: err, expiresAt: time.Now().Add(s.ttl)}
}

func (s *IdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartSweeper schedules a periodic background cleanup of expired entries
// every interval, using gocron so the sweeper shares the same scheduling
// machinery as any other periodic job in the process.
func (s *IdempotencyStore) StartSweeper(interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.sweep() }),
	)
	if err != nil {
		return err
	}
	s.scheduler = scheduler
	scheduler.Start()
	s.logger.Info("idempotency sweeper started", zap.Duration("interval", interval))
	return nil
}

// StopSweeper shuts the scheduler down, if running.
func (s *IdempotencyStore) StopSweeper(ctx context.Context) error {
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	return err
}

// Status reports the number of stored entries (expired entries count until
// the sweeper removes them) and whether the sweeper is running, for a
// status/admin surface.
func (s *IdempotencyStore) Status() (count int, running bool) {
	s.mu.Lock()
	count = len(s.entries)
	s.mu.Unlock()
	return count, s.scheduler != nil
}
