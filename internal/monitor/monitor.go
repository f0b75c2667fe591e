package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/store"
)

// Store connectivity states reported by /health
const (
	StateConnecting    = "connecting"
	StateConnected     = "connected"
	StateDisconnected  = "disconnected"
	StateDisconnecting = "disconnecting"
)

// Monitor periodically pings the store, tracks its connectivity state
// and reports the current video count
type Monitor struct {
	store       store.Store
	interval    time.Duration
	pingTimeout time.Duration
	onCount     func(int64)

	state    atomic.Value
	mu       sync.Mutex // serializes checks
	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopping atomic.Bool
	stopOnce sync.Once
}

// New creates a monitor. onCount receives the video count after each
// successful check and may be nil.
func New(st store.Store, interval time.Duration, onCount func(int64)) *Monitor {
	m := &Monitor{
		store:       st,
		interval:    interval,
		pingTimeout: 5 * time.Second,
		onCount:     onCount,
		stopCh:      make(chan struct{}),
	}
	m.state.Store(StateConnecting)
	return m
}

// State returns the last observed connectivity state
func (m *Monitor) State() string {
	return m.state.Load().(string)
}

// Start runs an immediate check and then checks every interval until Stop
func (m *Monitor) Start(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	m.wg.Add(1)
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	m.CheckOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", m.interval).Msg("Store monitor started")

	for {
		select {
		case <-ticker.C:
			m.CheckOnce(ctx)
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// CheckOnce pings the store and updates the state.
// Overlapping calls are skipped rather than queued.
func (m *Monitor) CheckOnce(ctx context.Context) {
	if !m.mu.TryLock() {
		log.Debug().Msg("Store check already running, skipping")
		return
	}
	defer m.mu.Unlock()

	if m.stopping.Load() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, m.pingTimeout)
	defer cancel()

	if err := m.store.Ping(ctx); err != nil {
		if m.setState(StateDisconnected) {
			log.Warn().Err(err).Msg("Store unreachable")
		}
		return
	}
	if m.setState(StateConnected) {
		log.Info().Msg("Store connected")
	}

	if m.onCount == nil {
		return
	}
	count, err := m.store.CountVideos(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count videos")
		return
	}
	m.onCount(count)
}

// Stop halts the periodic checks and waits for the loop to exit.
// The state stays disconnecting afterwards; an in-flight check is waited
// out so it cannot overwrite it.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.stopping.Store(true)
		close(m.stopCh)
	})
	m.wg.Wait()

	m.mu.Lock()
	m.state.Store(StateDisconnecting)
	m.mu.Unlock()
}

// setState stores s and reports whether it changed.
// Once stopping has begun the state is left alone.
func (m *Monitor) setState(s string) bool {
	if m.stopping.Load() {
		return false
	}
	return m.state.Swap(s).(string) != s
}
