// Package cache provides Redis-backed bookkeeping for scrape runs and
// trigger cooldowns.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Default connection timeout for Redis operations.
	defaultConnectionTimeout = 2 * time.Second
	// runTTL keeps finished run records around for a day.
	runTTL = 24 * time.Hour

	cooldownKey = "scrape:cooldown"
	runKeyFmt   = "scrape:run:%s"
)

// ErrRunNotFound is returned when no run record exists for an ID.
var ErrRunNotFound = errors.New("run not found")

// RunStatus is the lifecycle state of a scrape run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// SourceSummary records one source's outcome within a run.
type SourceSummary struct {
	Source   string `json:"source"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// Run is the persisted record of one scrape run.
type Run struct {
	ID          string          `json:"id"`
	Status      RunStatus       `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	Sources     []SourceSummary `json:"sources,omitempty"`
	RowsWritten int             `json:"rows_written"`
	Error       string          `json:"error,omitempty"`
}

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string `json:"-"`
	DB       int
	Prefix   string
}

// Store wraps a Redis client with run-tracking operations.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStoreFromClient(client, cfg.Prefix), nil
}

// NewStoreFromClient creates a Store from an existing Redis client.
func NewStoreFromClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "easyinterns"
	}
	return &Store{client: client, prefix: prefix}
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(suffix string) string {
	return s.prefix + ":" + suffix
}

// SaveRun writes a run record with a one-day TTL.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	key := s.key(fmt.Sprintf(runKeyFmt, run.ID))
	if err := s.client.Set(ctx, key, payload, runTTL).Err(); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun loads a run record by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	key := s.key(fmt.Sprintf(runKeyFmt, id))
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var run Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	return &run, nil
}

// TryAcquireCooldown attempts to claim the scrape-trigger cooldown. It
// returns false when a recent trigger still holds it, which callers should
// surface as a rejection rather than an error.
func (s *Store) TryAcquireCooldown(ctx context.Context, window time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(cooldownKey), time.Now().UTC().Format(time.RFC3339), window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire cooldown: %w", err)
	}
	return ok, nil
}
