/*
Package deeplink lets the view state machine run on the server. The Recorder
stands in for the browser viewport: instead of scrolling, it writes down what
it was asked to do, and the page replays those commands once it has loaded.
*/
package deeplink

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/minzhangphoto/portfolio/pkg/viewstate"
)

const (
	CommandScroll   = "scroll"
	CommandReveal   = "reveal"
	CommandEmphasis = "emphasis"
	CommandWait     = "wait"
)

type Command struct {
	Kind    string  `json:"kind"`
	Target  string  `json:"target,omitempty"`
	Offset  float64 `json:"offset,omitempty"`
	DelayMs int64   `json:"delayMs,omitempty"`
	On      bool    `json:"on,omitempty"`
}

/*
Recorder implements viewstate.Viewport, viewstate.Scheduler and
viewstate.ScrollLock. Scheduled work runs immediately, after a wait command
is recorded, so the browser sees the same delays in the same order.
*/
type Recorder struct {
	mu       sync.Mutex
	commands []Command
	locked   bool
}

func NewRecorder() *Recorder {
	return &Recorder{
		commands: []Command{},
	}
}

func (r *Recorder) add(command Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, command)
}

// ScrollTo records a scroll. Anchors on the server sit at 0, so Top is the
// offset from the element's own position.
func (r *Recorder) ScrollTo(target viewstate.ScrollTarget) {
	r.add(Command{Kind: CommandScroll, Target: string(target.Key), Offset: target.Top})
}

func (r *Recorder) ScrollIntoView(key viewstate.AnchorKey) {
	r.add(Command{Kind: CommandReveal, Target: string(key)})
}

func (r *Recorder) SetEmphasis(key viewstate.AnchorKey, on bool) {
	r.add(Command{Kind: CommandEmphasis, Target: string(key), On: on})
}

// OnScroll never fires on the server; parallax runs in the browser.
func (r *Recorder) OnScroll(handler func(y float64)) func() {
	return func() {}
}

func (r *Recorder) AfterFunc(d time.Duration, f func()) viewstate.Timer {
	r.add(Command{Kind: CommandWait, DelayMs: d.Milliseconds()})
	f()
	return firedTimer{}
}

func (r *Recorder) Lock() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.locked = true
}

func (r *Recorder) Unlock() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.locked = false
}

func (r *Recorder) Locked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.locked
}

func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Command{}, r.commands...)
}

func (r *Recorder) JSON() string {
	b, err := json.Marshal(r.Commands())

	if err != nil {
		return "[]"
	}

	return string(b)
}

// RelativeAnchor is an anchor whose position the browser resolves.
var RelativeAnchor = viewstate.AnchorFunc(func() float64 { return 0 })

type firedTimer struct{}

func (firedTimer) Stop() bool {
	return false
}
