package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidInterval = errors.New("scheduler: invalid interval")

// Tick asks the consumer to run one due-date sweep.
type Tick struct {
	At     time.Time
	Manual bool
}

// Engine emits a Tick every interval. The output channel holds a single tick:
// while the consumer has not taken the previous one, new ticks are dropped,
// so sweeps never pile up or overlap.
type Engine struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	out      chan Tick
	manual   chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	dropped  uint64
	emitted  uint64
}

func NewEngine(interval time.Duration) (*Engine, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Engine{
		interval: interval,
		now:      time.Now,
		out:      make(chan Tick, 1),
		manual:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (e *Engine) C() <-chan Tick {
	return e.out
}

func (e *Engine) Interval() time.Duration {
	return e.interval
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.loop()
}

// Stop halts the engine and waits for its goroutine to exit. C is closed
// afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Trigger requests an immediate tick without waiting for the interval.
func (e *Engine) Trigger() {
	select {
	case e.manual <- struct{}{}:
	default:
	}
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) Emitted() uint64 {
	return atomic.LoadUint64(&e.emitted)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.emit(Tick{At: e.now()})
		case <-e.manual:
			e.emit(Tick{At: e.now(), Manual: true})
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) emit(t Tick) {
	select {
	case e.out <- t:
		atomic.AddUint64(&e.emitted, 1)
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}
