package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Hooks are the block hooks a clock drives.
type Hooks interface {
	Block() primitive.BlockNumber
	OnInitialize(ctx context.Context, block primitive.BlockNumber) error
	OnIdle(ctx context.Context, block primitive.BlockNumber) error
}

// BlockClock advances the engine one block per interval.
type BlockClock struct {
	hooks   Hooks
	cron    *cron.Cron
	timeout time.Duration
	logf    func(string, ...any)

	mu sync.Mutex
}

// NewBlockClock schedules a block every interval. Ticks that overrun the
// interval are skipped rather than queued.
func NewBlockClock(hooks Hooks, interval time.Duration, logf func(string, ...any)) (*BlockClock, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("block interval must be positive, got %s", interval)
	}
	if logf == nil {
		logf = log.Printf
	}
	clock := &BlockClock{
		hooks:   hooks,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: interval,
		logf:    logf,
	}
	if _, err := clock.cron.AddFunc("@every "+interval.String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), clock.timeout)
		defer cancel()
		clock.Tick(ctx)
	}); err != nil {
		return nil, fmt.Errorf("schedule block clock: %w", err)
	}
	return clock, nil
}

// Tick produces the next block and runs both hooks for it.
func (c *BlockClock) Tick(ctx context.Context) primitive.BlockNumber {
	c.mu.Lock()
	defer c.mu.Unlock()

	block := c.hooks.Block() + 1
	if err := c.hooks.OnInitialize(ctx, block); err != nil {
		c.logf("block %d on_initialize: %v", block, err)
	}
	if err := c.hooks.OnIdle(ctx, block); err != nil {
		c.logf("block %d on_idle: %v", block, err)
	}
	return block
}

// Start begins producing blocks.
func (c *BlockClock) Start() { c.cron.Start() }

// Stop halts the clock and waits for a running tick.
func (c *BlockClock) Stop() {
	<-c.cron.Stop().Done()
}
