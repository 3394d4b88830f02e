package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// Breaker stops calling a failing region for ResetTimeout after Threshold
// consecutive failures, then lets a single probe through. Misses are not
// failures.
type Breaker struct {
	Region
	Threshold    int
	ResetTimeout time.Duration

	mu             sync.Mutex
	state          State
	failures       int
	lastFailure    time.Time
	halfOpenPassed bool
}

// NewBreaker wraps r.
func NewBreaker(r Region, threshold int, resetTimeout time.Duration) *Breaker {
	return &Breaker{
		Region:       r,
		Threshold:    threshold,
		ResetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.do(func() error {
		var err error
		data, err = b.Region.Get(ctx, key)
		return err
	})
	return data, err
}

func (b *Breaker) Put(ctx context.Context, key string, value []byte) error {
	return b.do(func() error { return b.Region.Put(ctx, key, value) })
}

func (b *Breaker) Remove(ctx context.Context, key string) error {
	return b.do(func() error { return b.Region.Remove(ctx, key) })
}

func (b *Breaker) Clear(ctx context.Context) error {
	return b.do(func() error { return b.Region.Clear(ctx) })
}

func (b *Breaker) do(fn func() error) error {
	b.mu.Lock()
	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailure) > b.ResetTimeout {
			b.state = StateHalfOpen
			b.halfOpenPassed = false
		} else {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
	case StateHalfOpen:
		if b.halfOpenPassed {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
	}
	if b.state == StateHalfOpen {
		b.halfOpenPassed = true
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil && !errors.Is(err, ErrMiss) {
		b.recordFailure()
	} else {
		b.recordSuccess()
	}
	return err
}

func (b *Breaker) recordFailure() {
	b.failures++
	b.lastFailure = time.Now()

	switch b.state {
	case StateClosed:
		if b.failures >= b.Threshold {
			b.state = StateOpen
		}
	case StateHalfOpen:
		b.state = StateOpen
		b.halfOpenPassed = false
	}
}

func (b *Breaker) recordSuccess() {
	if b.state == StateHalfOpen {
		b.state = StateClosed
		b.halfOpenPassed = false
	}
	b.failures = 0
}
