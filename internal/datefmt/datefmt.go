// Package datefmt produces the two literal timestamp formats stored on
// documents: date-only for users, date-time for posts.
package datefmt

import "time"

// Clock returns the current instant. Injectable so tests can pin the time.
type Clock func() time.Time

type Formatter struct {
	clock Clock
}

// New returns a Formatter reading from clock, or the host's local clock
// when clock is nil.
func New(clock Clock) *Formatter {
	if clock == nil {
		clock = time.Now
	}
	return &Formatter{clock: clock}
}

// Today returns the current date as YYYY-MM-DD, zero-padded.
func (f *Formatter) Today() string {
	return f.clock().Format("2006-01-02")
}

// Now returns the current date and time as YYYY-MM-DD HH:MM:SS, zero-padded.
func (f *Formatter) Now() string {
	return f.clock().Format("2006-01-02 15:04:05")
}
