// Package scheduler plays timed phases on a single-threaded cooperative loop.
package scheduler

import (
	"container/heap"
	"time"
)

// Loop is a virtual timer queue advanced by the host once per frame.
// Callbacks run on the goroutine that calls Advance, never concurrently.
type Loop struct {
	now   time.Time
	seq   uint64
	queue timerQueue
}

// NewLoop returns a loop whose clock starts at start.
func NewLoop(start time.Time) *Loop {
	return &Loop{now: start}
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time {
	return l.now
}

// After schedules fn to run no earlier than d from now.
func (l *Loop) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	l.seq++
	heap.Push(&l.queue, &timer{due: l.now.Add(d), seq: l.seq, fn: fn})
}

// Advance moves the clock to to and fires every due callback in due order.
// Callbacks scheduled while firing run in the same call when they are due.
func (l *Loop) Advance(to time.Time) int {
	fired := 0
	for l.queue.Len() > 0 {
		next := l.queue[0]
		if next.due.After(to) {
			break
		}
		heap.Pop(&l.queue)
		if next.due.After(l.now) {
			l.now = next.due
		}
		next.fn()
		fired++
	}
	if to.After(l.now) {
		l.now = to
	}
	return fired
}

type timer struct {
	due time.Time
	seq uint64
	fn  func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
