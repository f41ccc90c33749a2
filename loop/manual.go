package loop

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler driven by a virtual clock.
// Nothing runs until Flush or Advance is called, and everything runs on the caller's goroutine.
type Manual struct {
	now    time.Duration
	queue  []func()
	timers []*manualTimer
	seq    int
}

// NewManual returns a Manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	due      time.Duration
	interval time.Duration
	repeat   bool
	fn       func()
	seq      int
	stopped  bool
}

func (t *manualTimer) Stop() {
	t.stopped = true
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Post implements Scheduler.
func (m *Manual) Post(fn func()) {
	m.queue = append(m.queue, fn)
}

// Every implements Scheduler.
func (m *Manual) Every(interval time.Duration, fn func()) Timer {
	return m.add(interval, true, fn)
}

// After implements Scheduler.
func (m *Manual) After(delay time.Duration, fn func()) Timer {
	return m.add(delay, false, fn)
}

func (m *Manual) add(d time.Duration, repeat bool, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	m.seq++
	t := &manualTimer{due: m.now + d, interval: d, repeat: repeat, fn: fn, seq: m.seq}
	m.timers = append(m.timers, t)
	return t
}

// Pending reports how many timers are still live.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Flush runs queued callbacks, including callbacks they queue, until the queue is empty.
func (m *Manual) Flush() {
	for len(m.queue) > 0 {
		fn := m.queue[0]
		m.queue = m.queue[1:]
		fn()
	}
}

// Advance moves the virtual clock forward by d, firing due timers in order and flushing after each.
func (m *Manual) Advance(d time.Duration) {
	m.Flush()
	target := m.now + d

	for {
		next := m.next(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.repeat {
			next.due += next.interval
		} else {
			next.stopped = true
		}
		next.fn()
		m.Flush()
	}

	m.now = target
	m.compact()
}

func (m *Manual) next(limit time.Duration) *manualTimer {
	live := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped && t.due <= limit {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due == live[j].due {
			return live[i].seq < live[j].seq
		}
		return live[i].due < live[j].due
	})
	return live[0]
}

func (m *Manual) compact() {
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}
