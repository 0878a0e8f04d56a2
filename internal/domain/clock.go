package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock supplies the current instant. It is injected so "today" never comes
// from a hard-coded time.Now call inside the services.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to the Clock interface
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time { return f() }

// Today returns the calendar day of c.Now() in its own location
func Today(c Clock) civil.Date {
	return civil.DateOf(c.Now())
}
