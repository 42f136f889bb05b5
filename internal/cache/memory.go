package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type visitor struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// MemoryLimiter allows limit hits per window for each key within one process.
type MemoryLimiter struct {
	visitors sync.Map
	max      int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

// NewMemoryLimiter starts a cleanup goroutine; call Close to stop it.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	rl := &MemoryLimiter{
		max:    limit,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup removes visitors whose window has passed.
func (rl *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *MemoryLimiter) sweep() {
	now := rl.now()
	rl.visitors.Range(func(key, value any) bool {
		v := value.(*visitor)
		v.mu.Lock()
		expired := now.Sub(v.windowStart) > rl.window
		v.mu.Unlock()
		if expired {
			rl.visitors.Delete(key)
		}
		return true
	})
}

func (rl *MemoryLimiter) Allow(_ context.Context, key string) bool {
	now := rl.now()
	value, _ := rl.visitors.LoadOrStore(key, &visitor{windowStart: now})
	v := value.(*visitor)

	v.mu.Lock()
	defer v.mu.Unlock()
	if now.Sub(v.windowStart) >= rl.window {
		v.windowStart = now
		v.count = 0
	}
	v.count++
	if v.count > rl.max {
		slog.Warn("Rate limit exceeded", "key", key)
		return false
	}
	return true
}

func (rl *MemoryLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is the in-process Store and Locker.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	locks   map[string]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		locks:   make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := entry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
}

func (m *Memory) Delete(_ context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
}

func (m *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if until, held := m.locks[key]; held && now.Before(until) {
		return false, nil
	}
	m.locks[key] = now.Add(ttl)
	return true, nil
}
