// Package poll implements a cancellable "retry until a predicate holds" primitive on top of a loop.Scheduler.
package poll

import (
	"time"

	"github.com/yamanami-choir/yamanami/loop"
)

// Poll is a running retry. The zero value and a nil *Poll are both inactive.
type Poll struct {
	timer loop.Timer
	done  bool
}

// Until samples ready every interval. The first time it reports true the poll stops itself and runs then.
// The predicate is not sampled synchronously; the earliest check happens one interval from now.
func Until(s loop.Scheduler, interval time.Duration, ready func() bool, then func()) *Poll {
	p := &Poll{}
	p.timer = s.Every(interval, func() {
		if p.done {
			return
		}
		if !ready() {
			return
		}
		p.Stop()
		if then != nil {
			then()
		}
	})
	return p
}

// Stop cancels the poll. It is safe to call more than once and on a nil receiver.
func (p *Poll) Stop() {
	if p == nil || p.done {
		return
	}
	p.done = true
	if p.timer != nil {
		p.timer.Stop()
	}
}

// Active reports whether the poll is still waiting for its predicate.
func (p *Poll) Active() bool {
	return p != nil && !p.done
}
