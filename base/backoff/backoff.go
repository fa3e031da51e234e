package backoff

import (
	"context"
	"math"
	"time"
)

type Strategy interface {
	Duration(count int, start time.Duration) time.Duration
}

// Backoff hands out growing sleeps, capped at limit when limit > 0. It is not safe for concurrent use.
type Backoff struct {
	Last     time.Duration
	Next     time.Duration
	start    time.Duration
	limit    time.Duration
	count    int
	strategy Strategy
}

func New(strategy Strategy, start, limit time.Duration) *Backoff {
	b := &Backoff{strategy: strategy, start: start, limit: limit}
	b.Reset()
	return b
}

func (b *Backoff) Reset() {
	b.count = 0
	b.Last = 0
	b.Next = b.next()
}

// Wait sleeps for Next, it returns ctx.Err() when ctx is done first
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	b.count++
	b.Last = b.Next
	b.Next = b.next()
	return nil
}

func (b *Backoff) next() time.Duration {
	d := b.strategy.Duration(b.count, b.start)
	if b.limit > 0 && d > b.limit {
		d = b.limit
	}
	return d
}

// Retry calls fn up to attempts times, waiting between failures. The last error is returned.
func (b *Backoff) Retry(ctx context.Context, attempts int, fn func() error) error {
	b.Reset()
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		if werr := b.Wait(ctx); werr != nil {
			return err
		}
	}
	return err
}

type exponential struct{}

func (exponential) Duration(count int, start time.Duration) time.Duration {
	return time.Duration(math.Pow(2, float64(count))) * start
}

func NewExponential(start, limit time.Duration) *Backoff {
	return New(exponential{}, start, limit)
}

type linear struct{}

func (linear) Duration(count int, start time.Duration) time.Duration {
	return time.Duration(count+1) * start
}

func NewLinear(start, limit time.Duration) *Backoff {
	return New(linear{}, start, limit)
}
