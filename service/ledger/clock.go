package ledger

import (
	"sync"
	"time"
)

// Clock supplies the block timestamp of the next transaction, in unix seconds
type Clock interface {
	Now() uint64
}

type wallClock struct{}

func (wallClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

func NewWallClock() Clock {
	return wallClock{}
}

// ManualClock only moves when told to, the way a local dev chain lets tests pick block times
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set pins the timestamp every following transaction observes
func (c *ManualClock) Set(ts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = ts
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += uint64(d / time.Second)
}
