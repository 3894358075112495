package viewstate

import "time"

type Timer interface {
	Stop() bool
}

/*
Scheduler runs f once after d. The scroll anchor controller uses it for the
contact-sheet settle delay and for reverting image emphasis.
*/
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
