package wconfig

import (
	"sync/atomic"
	"time"
)

// Clock is a cooperative cancellation token shared by every long-running
// component (local-search operators, the MCTS loop, the run controller). It
// replaces OS signal handlers touching solver state directly: a signal
// handler calls Stop(), and every hot loop polls ShouldStop cheaply via a
// sparse step counter rather than on every iteration.
type Clock struct {
	deadline    int64 // unix nanos; 0 means "no deadline"
	stopped     atomic.Bool
	startedAt   time.Time
}

// NewClock returns a Clock with startedAt set to now and, if timeLimit > 0, a
// deadline timeLimit from now. A zero timeLimit means no wall-clock deadline;
// only an explicit Stop() call or target/iteration limits end the run.
func NewClock(timeLimit time.Duration) *Clock {
	c := &Clock{startedAt: time.Now()}
	if timeLimit > 0 {
		c.deadline = c.startedAt.Add(timeLimit).UnixNano()
	}
	return c
}

// Stop requests cooperative termination; every subsequent ShouldStop call
// (from any component, at any check interval) returns true.
func (c *Clock) Stop() { c.stopped.Store(true) }

// ShouldStop reports whether the deadline has passed or Stop was called.
// Cheap enough to call every iteration, but callers on a hot path should
// still gate it behind a sparse step counter (see CheckEvery).
func (c *Clock) ShouldStop() bool {
	if c.stopped.Load() {
		return true
	}
	if c.deadline == 0 {
		return false
	}
	return time.Now().UnixNano() >= c.deadline
}

// Elapsed returns the wall-clock time since the clock was created.
func (c *Clock) Elapsed() time.Duration { return time.Since(c.startedAt) }

// CheckEvery performs a sparse ShouldStop test: only actually checks the
// clock every `mask+1` calls (mask must be 2^k-1), returning false on the
// skipped calls. step is the caller's own running counter, incremented by
// the caller on every call regardless of the result — so hot loops don't
// pay a time.Now() syscall per iteration.
func CheckEvery(c *Clock, step int, mask int) bool {
	if step&mask != 0 {
		return false
	}
	return c.ShouldStop()
}
