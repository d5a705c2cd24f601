// Package cleanup evicts expired entries from the in-process counter and
// presence stores. Redis expires its own keys, so the job only runs when the
// API falls back to memory.
package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultInterval = 5 * time.Minute

type Sweeper interface {
	Sweep() int
}

type Job struct {
	sweepers map[string]Sweeper
	interval time.Duration
	logger   *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		sweepers: make(map[string]Sweeper),
		interval: interval,
		logger:   logger,
	}
}

func (j *Job) Attach(name string, s Sweeper) {
	if s == nil {
		return
	}
	j.sweepers[name] = s
}

func (j *Job) Empty() bool {
	return len(j.sweepers) == 0
}

// Run performs one pass and returns the number of evicted entries per store.
func (j *Job) Run(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, len(j.sweepers))
	for name, s := range j.sweepers {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		removed := s.Sweep()
		out[name] = removed
		if removed > 0 {
			j.logger.Debug("cleanup sweep completed", zap.String("store", name), zap.Int("evicted", removed))
		}
	}
	return out, nil
}

// Start runs the job every interval until ctx is done.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil && ctx.Err() == nil {
				j.logger.Warn("cleanup sweep failed", zap.Error(err))
			}
		}
	}
}
