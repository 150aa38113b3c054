// Package clock provides the time source and local time zone used for
// timestamps and hour-of-day reporting.
package clock

import (
	"fmt"
	"time"
)

const DefaultTimezone = "America/Mexico_City"

type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a wall clock reporting in the named IANA zone.
func New(timezone string) (Clock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%q) -> %w", timezone, err)
	}

	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// Fixed is a Clock frozen at a given instant, used by tests.
type Fixed struct {
	At  time.Time
	Loc *time.Location
}

func (f Fixed) Now() time.Time {
	return f.At.In(f.Location())
}

func (f Fixed) Location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}
