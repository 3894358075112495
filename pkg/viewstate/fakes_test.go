package viewstate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/minzhangphoto/portfolio/pkg/models"
	"github.com/minzhangphoto/portfolio/pkg/services"
)

type fakeTimer struct {
	at      time.Duration
	seq     int
	f       func()
	fired   bool
	stopped bool
	owner   *fakeScheduler
}

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}

	t.stopped = true
	return true
}

type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	timer := &fakeTimer{at: s.now + d, seq: s.seq, f: f, owner: s}
	s.timers = append(s.timers, timer)
	return timer
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d

	for {
		due := []*fakeTimer{}

		for _, timer := range s.timers {
			if !timer.fired && !timer.stopped && timer.at <= target {
				due = append(due, timer)
			}
		}

		if len(due) == 0 {
			break
		}

		sort.Slice(due, func(i, j int) bool {
			if due[i].at == due[j].at {
				return due[i].seq < due[j].seq
			}

			return due[i].at < due[j].at
		})

		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()

		s.mu.Lock()
	}

	s.now = target
	s.mu.Unlock()
}

func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0

	for _, timer := range s.timers {
		if !timer.fired && !timer.stopped {
			count++
		}
	}

	return count
}

type fakeViewport struct {
	mu       sync.Mutex
	calls    []string
	handler  func(y float64)
	detached int
}

func (v *fakeViewport) record(call string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.calls = append(v.calls, call)
}

func (v *fakeViewport) Calls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]string{}, v.calls...)
}

func (v *fakeViewport) ScrollTo(target ScrollTarget) {
	v.record(fmt.Sprintf("scrollTo %s %.0f", target.Key, target.Top))
}

func (v *fakeViewport) ScrollIntoView(key AnchorKey) {
	v.record(fmt.Sprintf("intoView %s", key))
}

func (v *fakeViewport) SetEmphasis(key AnchorKey, on bool) {
	state := "off"

	if on {
		state = "on"
	}

	v.record(fmt.Sprintf("emphasis %s %s", key, state))
}

func (v *fakeViewport) OnScroll(handler func(y float64)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.handler = handler

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		v.handler = nil
		v.detached++
	}
}

func (v *fakeViewport) Scroll(y float64) {
	v.mu.Lock()
	handler := v.handler
	v.mu.Unlock()

	if handler != nil {
		handler(y)
	}
}

type countingScrollLock struct {
	locks   int
	unlocks int
}

func (l *countingScrollLock) Lock() {
	l.locks++
}

func (l *countingScrollLock) Unlock() {
	l.unlocks++
}

func (l *countingScrollLock) Held() int {
	return l.locks - l.unlocks
}

type staticLoader struct {
	payload string
	err     error
	calls   int
}

func (l *staticLoader) LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error) {
	l.calls++

	if l.err != nil {
		return nil, l.err
	}

	return services.ParseCollections([]byte(l.payload))
}

type blockingLoader struct {
	started chan struct{}
}

func (l *blockingLoader) LoadCollections(ctx context.Context) ([]models.RawCollectionEntry, error) {
	close(l.started)
	<-ctx.Done()
	return []models.RawCollectionEntry{models.ParseRawCollectionEntry(`{"id":"late"}`)}, nil
}
