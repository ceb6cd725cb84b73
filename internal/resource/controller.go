package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentRuns bounds how many traversal runs may execute at once
	// against one shared graph. If 0, defaults to 1.
	MaxConcurrentRuns int64

	// IOLimitBytesPerSec caps shard write throughput. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller hands out run slots and shard I/O budget.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg       Config
	runs      *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentRuns <= 0 {
		cfg.MaxConcurrentRuns = 1
	}
	c := &Controller{
		cfg:  cfg,
		runs: semaphore.NewWeighted(cfg.MaxConcurrentRuns),
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// Config returns the effective limits.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireRun blocks until a run slot is free or ctx is done.
func (c *Controller) AcquireRun(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.runs.Acquire(ctx, 1)
}

// TryAcquireRun reserves a run slot without blocking.
func (c *Controller) TryAcquireRun() bool {
	if c == nil {
		return true
	}
	return c.runs.TryAcquire(1)
}

// ReleaseRun frees a run slot.
func (c *Controller) ReleaseRun() {
	if c == nil {
		return
	}
	c.runs.Release(1)
}

// AcquireIO waits until the I/O limit allows n bytes. Requests larger than
// the bucket size are split into bucket-sized waits.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}
