// Package scheduler rebuilds the default league's report on a cron schedule
// so downloads are served warm from the cache.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// EvictSpec sweeps expired cache entries.
const EvictSpec = "@every 5m"

// Refresher rebuilds and stores a league's report.
type Refresher interface {
	Refresh(ctx context.Context, leagueID int) error
}

// Store is the cache the refresh fills and the sweep evicts from.
type Store interface {
	Enabled() bool
	Evict() int
}

// Scheduler manages the refresh and eviction cron tasks.
type Scheduler struct {
	cron     *cron.Cron
	gen      Refresher
	cache    Store
	leagueID int
	logger   *slog.Logger
	ctx      context.Context
}

// New creates a Scheduler. Overlapping runs of the same task are skipped: a
// cold refresh of a large league can outlast a short schedule.
func New(ctx context.Context, gen Refresher, c Store, leagueID int, logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		gen:      gen,
		cache:    c,
		leagueID: leagueID,
		logger:   logger,
		ctx:      ctx,
	}
}

// RegisterAll registers cache eviction and, when refreshSpec is non-empty and
// the cache is enabled, the report refresh.
func (s *Scheduler) RegisterAll(refreshSpec string) error {
	if refreshSpec != "" && !s.cache.Enabled() {
		s.logger.Warn("Cache disabled, scheduled refresh not registered", "schedule", refreshSpec)
		refreshSpec = ""
	}
	if refreshSpec != "" {
		if _, err := s.cron.AddFunc(refreshSpec, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task %q: %w", refreshSpec, err)
		}
	}
	if _, err := s.cron.AddFunc(EvictSpec, s.evictTask); err != nil {
		return fmt.Errorf("register evict task: %w", err)
	}
	return nil
}

// Entries returns the number of registered tasks.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", "tasks", s.Entries())
}

// Stop stops the scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (warm start).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if s.ctx.Err() != nil || !s.cache.Enabled() {
		return
	}
	start := time.Now()
	s.logger.Info("Refreshing report", "league_id", s.leagueID)
	if err := s.gen.Refresh(s.ctx, s.leagueID); err != nil {
		s.logger.Error("Report refresh failed", "league_id", s.leagueID, "error", err)
		return
	}
	s.logger.Info("Report refresh done",
		"league_id", s.leagueID,
		"duration", time.Since(start).Round(time.Second))
}

func (s *Scheduler) evictTask() {
	if n := s.cache.Evict(); n > 0 {
		s.logger.Debug("Evicted expired cache entries", "count", n)
	}
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
