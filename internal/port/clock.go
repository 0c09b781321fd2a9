package port

import "time"

// Clock abstracts time.Now so date comparisons (future-date rejection,
// timestamps) are testable with a fixed instant.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by the system time, in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }
