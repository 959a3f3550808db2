package clock

import "time"

// Clock abstracts time so services stay deterministic in tests.
// Local time is deliberate: daily stats cut on the user's calendar day.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
