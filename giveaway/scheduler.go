package giveaway

import "time"

// Cancel stops a pending delayed task. Calling it after the task ran is a no-op.
type Cancel func()

// Scheduler runs fire-once delayed tasks.
type Scheduler interface {
	After(d time.Duration, fn func()) Cancel
}

// TimerScheduler is a Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// After runs fn in its own goroutine once d has elapsed.
func (TimerScheduler) After(d time.Duration, fn func()) Cancel {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}
