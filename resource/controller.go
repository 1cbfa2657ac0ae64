package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// bytesPerPixel approximates the working memory of one pixel during a job:
// source and working float64 buffers plus the index plane.
const bytesPerPixel = 2*24 + 4

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for in-flight image memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxWorkers is the maximum number of concurrent image jobs.
	// If 0, defaults to 1.
	MaxWorkers int64

	// IOLimitBytesPerSec is the maximum blob IO throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages shared resources (memory, concurrency, IO).
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Concurrency
	workerSem *semaphore.Weighted

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:       cfg,
		workerSem: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config { return c.cfg }

// EstimateImageMemory returns the approximate bytes a width×height job holds.
func EstimateImageMemory(width, height int) int64 {
	return int64(width) * int64(height) * bytesPerPixel
}

// clampMemory caps a request at the hard limit so that an image larger than
// the whole budget still runs, alone.
func (c *Controller) clampMemory(bytes int64) int64 {
	if c.cfg.MemoryLimitBytes > 0 && bytes > c.cfg.MemoryLimitBytes {
		return c.cfg.MemoryLimitBytes
	}
	return bytes
}

// AcquireMemory reserves memory and returns the amount actually reserved,
// which must be passed to ReleaseMemory. With a hard limit configured this
// blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) (int64, error) {
	if c == nil || bytes <= 0 {
		return 0, nil
	}
	bytes = c.clampMemory(bytes)

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return 0, err
		}
	}

	c.memUsed.Add(bytes)
	return bytes, nil
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns the reserved amount and true if acquired.
func (c *Controller) TryAcquireMemory(bytes int64) (int64, bool) {
	if c == nil || bytes <= 0 {
		return 0, true
	}
	bytes = c.clampMemory(bytes)

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return 0, false
		}
	}

	c.memUsed.Add(bytes)
	return bytes, true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	return c.memUsed.Load()
}

// AcquireWorker reserves a job slot. Blocks if all slots are busy.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	return c.workerSem.Acquire(ctx, 1)
}

// TryAcquireWorker attempts to reserve a job slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	return c.workerSem.TryAcquire(1)
}

// ReleaseWorker releases a job slot.
func (c *Controller) ReleaseWorker() {
	c.workerSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the burst are split.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// Run executes fn holding a worker slot and memBytes of memory.
func (c *Controller) Run(ctx context.Context, memBytes int64, fn func(ctx context.Context) error) error {
	if err := c.AcquireWorker(ctx); err != nil {
		return err
	}
	defer c.ReleaseWorker()

	held, err := c.AcquireMemory(ctx, memBytes)
	if err != nil {
		return err
	}
	defer c.ReleaseMemory(held)

	return fn(ctx)
}
