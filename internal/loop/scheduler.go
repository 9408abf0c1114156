package loop

import (
	"sync"
	"time"
)

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// FrameFunc is invoked once with the frame timestamp.
type FrameFunc func(now time.Time)

// Scheduler abstracts the host's animation-frame primitive. Each requested
// callback runs at most once; cancelling an unknown, finished or already
// cancelled id is a no-op.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn FrameFunc
}

// FrameLoop is a Scheduler stepped explicitly by a host loop. Callbacks
// requested during a Step run on the next Step. Tasks posted from other
// goroutines run at the start of the next Step, on the stepping goroutine,
// so the engine keeps a single mutator.
type FrameLoop struct {
	mu       sync.Mutex
	nextID   FrameID
	pending  []pendingFrame
	inflight []pendingFrame // batch being run by Step
	tasks    []func()
}

// NewFrameLoop returns an empty frame loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

func (l *FrameLoop) RequestFrame(fn FrameFunc) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending = append(l.pending, pendingFrame{id: l.nextID, fn: fn})
	return l.nextID
}

func (l *FrameLoop) CancelFrame(id FrameID) {
	if id == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.pending[:0]
	for _, p := range l.pending {
		if p.id != id {
			kept = append(kept, p)
		}
	}
	l.pending = kept
	for i := range l.inflight {
		if l.inflight[i].id == id {
			l.inflight[i].fn = nil
		}
	}
}

// Post queues task to run on the stepping goroutine.
func (l *FrameLoop) Post(task func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append(l.tasks, task)
}

// Pending returns the number of frame callbacks waiting for the next Step.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Step runs posted tasks, then every frame callback that was pending when
// Step began, in request order. A callback cancelled by an earlier one in
// the same batch is skipped.
func (l *FrameLoop) Step(now time.Time) {
	l.mu.Lock()
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	for _, task := range tasks {
		task()
	}

	l.mu.Lock()
	l.inflight = l.pending
	l.pending = nil
	n := len(l.inflight)
	l.mu.Unlock()

	for i := 0; i < n; i++ {
		l.mu.Lock()
		fn := l.inflight[i].fn
		l.mu.Unlock()
		if fn != nil {
			fn(now)
		}
	}

	l.mu.Lock()
	l.inflight = nil
	l.mu.Unlock()
}

var _ Scheduler = (*FrameLoop)(nil)
