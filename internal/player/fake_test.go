package player

import (
	"fmt"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/media"
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/samber/mo"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type seekCall struct {
	seconds float64
	precise bool
}

// fakePlayer records every command and lets tests drive the status and
// time streams by hand.
type fakePlayer struct {
	calls    []string
	seeks    []seekCall
	rates    []float64
	rate     float64
	duration mo.Option[float64]
	position float64
	failWith error

	statusFns map[int]func(media.Status)
	nextID    int
	timeFn    func(float64)
}

func newFakePlayer(duration float64) *fakePlayer {
	return &fakePlayer{
		rate:      1,
		duration:  media.KnownDuration(duration),
		statusFns: make(map[int]func(media.Status)),
	}
}

func (f *fakePlayer) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakePlayer) Play() error  { return f.record("play") }
func (f *fakePlayer) Pause() error { return f.record("pause") }

func (f *fakePlayer) SetRate(rate float64) error {
	f.rate = rate
	f.rates = append(f.rates, rate)
	return f.record(fmt.Sprintf("rate %g", rate))
}

func (f *fakePlayer) Rate() float64 { return f.rate }

func (f *fakePlayer) Seek(seconds float64) error {
	f.position = seconds
	f.seeks = append(f.seeks, seekCall{seconds: seconds})
	return f.record("seek")
}

func (f *fakePlayer) SeekPrecisely(seconds float64) error {
	f.position = seconds
	f.seeks = append(f.seeks, seekCall{seconds: seconds, precise: true})
	return f.record("seek-precise")
}

func (f *fakePlayer) StepFrames(n int) error {
	f.position += float64(n) / 30
	return f.record(fmt.Sprintf("step %d", n))
}

func (f *fakePlayer) Duration() mo.Option[float64] { return f.duration }
func (f *fakePlayer) Position() float64            { return f.position }

func (f *fakePlayer) ObserveStatus(fn func(media.Status)) func() {
	f.nextID++
	id := f.nextID
	f.statusFns[id] = fn
	return func() { delete(f.statusFns, id) }
}

func (f *fakePlayer) ObserveTime(_ time.Duration, fn func(float64)) func() {
	f.timeFn = fn
	return func() { f.timeFn = nil }
}

func (f *fakePlayer) emit(st media.Status) {
	for _, fn := range f.statusFns {
		fn(st)
	}
}

func (f *fakePlayer) tick(seconds float64) {
	if f.timeFn != nil {
		f.timeFn(seconds)
	}
}

func (f *fakePlayer) lastSeek() seekCall {
	if len(f.seeks) == 0 {
		return seekCall{seconds: -1}
	}
	return f.seeks[len(f.seeks)-1]
}

func (f *fakePlayer) reset() {
	f.calls = nil
	f.seeks = nil
	f.rates = nil
}

func newTestCoordinator(duration float64) (*Coordinator, *fakePlayer, *sched.Manual) {
	m := sched.NewManual(epoch)
	fp := newFakePlayer(duration)
	return New(fp, m, DefaultConfig(), nil), fp, m
}
