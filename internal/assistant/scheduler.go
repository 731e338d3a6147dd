package assistant

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. It abstracts time.AfterFunc for testing.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
