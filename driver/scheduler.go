// Package driver binds a field variant to a host surface: lifecycle, events and
// the frame loop.
package driver

import "time"

// FrameFunc is a frame callback. now is the host clock at the start of the tick.
type FrameFunc func(now time.Duration)

// FrameHandle identifies a requested frame so it can be cancelled.
type FrameHandle uint64

// Scheduler requests one-shot frame callbacks from the host.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameHandle
	CancelFrame(h FrameHandle)
}

type frameEntry struct {
	handle    FrameHandle
	fn        FrameFunc
	cancelled bool
}

// FrameQueue is a Scheduler driven by explicit ticks.
// Callbacks requested while a tick is running wait for the next tick.
type FrameQueue struct {
	next    FrameHandle
	pending []*frameEntry
	byID    map[FrameHandle]*frameEntry
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{byID: make(map[FrameHandle]*frameEntry)}
}

// RequestFrame queues fn for the next tick.
func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameHandle {
	q.next++
	e := &frameEntry{handle: q.next, fn: fn}
	q.pending = append(q.pending, e)
	q.byID[e.handle] = e
	return e.handle
}

// CancelFrame drops a queued callback. Unknown or already-run handles are ignored.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	if e, ok := q.byID[h]; ok {
		e.cancelled = true
		delete(q.byID, h)
	}
}

// Tick runs every callback queued before the tick started and returns how many ran.
func (q *FrameQueue) Tick(now time.Duration) int {
	batch := q.pending
	q.pending = nil

	ran := 0
	for _, e := range batch {
		if e.cancelled {
			continue
		}
		delete(q.byID, e.handle)
		e.fn(now)
		ran++
	}
	return ran
}

// Pending returns the number of live callbacks waiting for a tick.
func (q *FrameQueue) Pending() int {
	return len(q.byID)
}
