package jobstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically evicts expired jobs from a store on a fixed cron
// schedule. Eviction is the only mechanism that bounds store growth: jobs
// cannot be cancelled once submitted, so they are removed purely by age.
type Sweeper struct {
	store    Store
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper that removes jobs older than ttl on the given
// cron schedule (e.g. "@every 5m").
func NewSweeper(store Store, ttl time.Duration, schedule string, logger *slog.Logger) (*Sweeper, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	s := &Sweeper{
		store:    store,
		ttl:      ttl,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "sweeper"),
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running sweeps on the configured schedule.
func (s *Sweeper) Start() {
	s.logger.Info("starting eviction sweeper", "ttl", s.ttl, "schedule", s.schedule)
	s.cron.Start()
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("eviction sweeper stopped")
}

// Sweep runs one eviction pass immediately.
func (s *Sweeper) Sweep() {
	removed := s.store.EvictExpired(context.Background(), s.ttl)
	if removed > 0 {
		s.logger.Info("sweep removed expired jobs", "count", removed)
	}
}
