// Package scheduler runs the ingest pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/easyinterns/internal/logger"
	"github.com/jonesrussell/easyinterns/internal/pipeline"
	"github.com/jonesrussell/easyinterns/internal/scraper"
)

// Runner executes one full scrape run. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, query scraper.Query) (*pipeline.Result, error)
}

// Scheduler triggers pipeline runs from a cron expression. A run that is
// still in progress when the next tick fires is never overlapped; the tick
// is skipped instead.
type Scheduler struct {
	logger     logger.Interface
	runner     Runner
	query      scraper.Query
	schedule   string
	runTimeout time.Duration

	cron    *cron.Cron
	running bool
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a scheduler for the given cron expression. The expression uses
// the standard 5-field format (minute hour day month weekday).
func New(
	log logger.Interface,
	runner Runner,
	query scraper.Query,
	schedule string,
	runTimeout time.Duration,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	return &Scheduler{
		logger:     log.WithComponent("scheduler"),
		runner:     runner,
		query:      query,
		schedule:   schedule,
		runTimeout: runTimeout,
		cron:       c,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start registers the cron entry and starts the scheduler.
func (s *Scheduler) Start() error {
	entryID, err := s.cron.AddFunc(s.schedule, s.tick)
	if err != nil {
		return fmt.Errorf("parse cron expression %q: %w", s.schedule, err)
	}

	s.cron.Start()
	next := s.cron.Entry(entryID).Next
	s.logger.Info("Scheduler started",
		"schedule", s.schedule,
		"next_run", next.Format("2006-01-02 15:04:05"))
	return nil
}

// Stop stops the scheduler and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	cronCtx := s.cron.Stop()
	<-cronCtx.Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// TriggerNow runs the pipeline immediately, outside the cron schedule. It
// returns false when a run is already in progress.
func (s *Scheduler) TriggerNow() bool {
	if !s.tryAcquire() {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute()
	}()
	return true
}

func (s *Scheduler) tick() {
	if !s.tryAcquire() {
		s.logger.Warn("Previous run still in progress, skipping tick", "schedule", s.schedule)
		return
	}
	s.wg.Add(1)
	defer s.wg.Done()
	s.execute()
}

func (s *Scheduler) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Scheduler) execute() {
	defer s.release()

	ctx := s.ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info("Scheduled run starting", "triggered_at", start.Format("2006-01-02 15:04:05"))

	result, err := s.runner.Run(ctx, s.query)
	if err != nil {
		s.logger.Error("Scheduled run failed", "error", err, "duration", time.Since(start).String())
		return
	}

	s.logger.Info("Scheduled run completed",
		"run_id", result.RunID,
		"scraped", result.Scraped,
		"written", result.Written,
		"duration", result.Duration.String())
}
