// Package sched runs every piece of interaction state on one goroutine.
//
// Clock ticks, debounce expiries and gesture callbacks all arrive through a
// Scheduler, so the code they call never needs a lock.
package sched

import "time"

// Timer is a pending delayed task.
type Timer interface {
	// Stop cancels the task. It reports whether the call prevented the
	// task from running and is safe to call more than once.
	Stop() bool
}

// Scheduler is the execution context of the interaction engine.
type Scheduler interface {
	Now() time.Time

	// AfterFunc runs fn on the scheduler goroutine once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer

	// Post runs fn on the scheduler goroutine as soon as possible.
	Post(fn func())
}

// Seconds converts a float second count into a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
