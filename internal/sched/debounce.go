package sched

import "time"

// Debouncer owns the single pending timer of one concern. Every Schedule
// cancels the previous timer; a timer whose generation is no longer current
// never runs its callback.
type Debouncer struct {
	sched Scheduler
	timer Timer
	epoch uint64
	due   time.Time
}

func NewDebouncer(s Scheduler) *Debouncer {
	return &Debouncer{sched: s}
}

// Schedule replaces any pending task with fn, due after delay.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) {
	d.Cancel()
	epoch := d.epoch
	d.due = d.sched.Now().Add(delay)
	d.timer = d.sched.AfterFunc(delay, func() {
		if epoch != d.epoch {
			return
		}
		d.timer = nil
		d.epoch++
		fn()
	})
}

// Cancel drops the pending task, if any. Calling it repeatedly is harmless.
func (d *Debouncer) Cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.epoch++
}

func (d *Debouncer) Pending() bool {
	return d.timer != nil
}

// Due returns the deadline of the pending task, or the zero time.
func (d *Debouncer) Due() time.Time {
	if d.timer == nil {
		return time.Time{}
	}
	return d.due
}
