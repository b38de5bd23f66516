package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter answers whether a request identified by key is within quota.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type entry struct {
	count     int
	resetTime time.Time
}

// Memory is a fixed-window in-process limiter with a background sweep that
// evicts expired windows. Construct once per endpoint and Stop on shutdown.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry

	max    int
	window time.Duration

	stopOnce sync.Once
	done     chan struct{}
}

func NewMemory(max int, window time.Duration) *Memory {
	l := &Memory{
		entries: make(map[string]*entry),
		max:     max,
		window:  window,
		done:    make(chan struct{}),
	}
	go l.sweep()
	return l
}

func (l *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || e.resetTime.Before(now) {
		l.entries[key] = &entry{count: 1, resetTime: now.Add(l.window)}
		return true, nil
	}

	if e.count >= l.max {
		return false, nil
	}
	e.count++
	return true, nil
}

func (l *Memory) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *Memory) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for key, e := range l.entries {
				if e.resetTime.Before(now) {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
