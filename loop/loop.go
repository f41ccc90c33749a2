// Package loop provides the single-goroutine event loop that every player operation runs on.
//
// Backends live on their own goroutines (IPC readers, process reapers, installers) but never
// touch controller state directly: they Post a callback and the loop runs it in order with
// every other callback and timer. Code running on the loop therefore needs no locking.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the timer. A callback that has not started yet will never run.
	Stop()
}

// Scheduler is the subset of the loop that controller code depends on.
type Scheduler interface {
	// Post queues fn to run on the loop.
	Post(fn func())
	// Every runs fn on the loop each interval until the returned Timer is stopped.
	Every(interval time.Duration, fn func()) Timer
	// After runs fn on the loop once, after delay.
	After(delay time.Duration, fn func()) Timer
}

const queueSize = 256

// Loop is the production Scheduler backed by a goroutine per timer and one consumer goroutine.
type Loop struct {
	queue chan func()
	done  chan struct{}

	mu      sync.Mutex
	timers  map[*timer]struct{}
	running bool
	closed  bool
}

// New creates an idle loop. Callbacks posted before Run are buffered.
func New() *Loop {
	return &Loop{
		queue:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		timers: make(map[*timer]struct{}),
	}
}

// Run consumes callbacks until ctx is cancelled, then stops every live timer.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running || l.closed {
		l.mu.Unlock()
		return nil
	}
	l.running = true
	l.mu.Unlock()

	defer l.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	l.closed = true
	timers := make([]*timer, 0, len(l.timers))
	for t := range l.timers {
		timers = append(timers, t)
	}
	l.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	close(l.done)
}

// Done is closed after Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn. Posting after shutdown is a silent no-op.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}

	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Call runs fn on the loop and waits for it to finish. It must not be called from the loop itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Every implements Scheduler.
func (l *Loop) Every(interval time.Duration, fn func()) Timer {
	return l.schedule(interval, true, fn)
}

// After implements Scheduler.
func (l *Loop) After(delay time.Duration, fn func()) Timer {
	return l.schedule(delay, false, fn)
}

func (l *Loop) schedule(d time.Duration, repeat bool, fn func()) Timer {
	t := &timer{loop: l, stop: make(chan struct{})}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		t.stopped.Store(true)
		return t
	}
	l.timers[t] = struct{}{}
	l.mu.Unlock()

	go t.run(d, repeat, fn)
	return t
}

type timer struct {
	loop    *Loop
	stop    chan struct{}
	once    sync.Once
	stopped atomic.Bool
}

func (t *timer) run(d time.Duration, repeat bool, fn func()) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			// The stopped check runs on the loop, so a tick queued before Stop
			// but consumed after it is dropped.
			t.loop.Post(func() {
				if !t.stopped.Load() {
					fn()
				}
			})
			if !repeat {
				t.forget()
				return
			}
		}
	}
}

func (t *timer) forget() {
	t.loop.mu.Lock()
	delete(t.loop.timers, t)
	t.loop.mu.Unlock()
}

// Stop implements Timer. It does not wait for the timer goroutine when called from the loop.
func (t *timer) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		close(t.stop)
		t.forget()
	})
}
