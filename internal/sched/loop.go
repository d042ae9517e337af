package sched

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrLoopRunning = errors.New("loop already running")

// Loop is a Scheduler backed by a single goroutine draining a task queue.
// The queue is unbounded so Post never blocks, including posts made by a
// task already running on the loop.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
	quit  chan struct{}
	once  sync.Once

	running bool
}

// Creates a new loop; capacity presizes the queue
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		tasks: make([]func(), 0, capacity),
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post enqueues fn and returns at once. fn is dropped once the loop is
// closed.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.quit:
		return
	default:
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Close stops Run and makes every later Post a no-op.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// Stop may have been called after the runtime timer fired but
			// before this task reached the front of the queue.
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return t
}

// Run drains tasks until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quit:
			return nil
		case <-l.wake:
		}

		for _, fn := range l.take() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.quit:
				return nil
			default:
			}
			fn()
		}
	}
}

// take hands over the queued tasks. Tasks posted while they run land in a
// fresh slice and are picked up on the next wake.
func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	tasks := l.tasks
	l.tasks = nil
	return tasks
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}
