// Package timeutil converts between the configured practice timezone and the
// UTC instants the store persists. DST handling defers to the time package
// and the IANA zone database; no offset arithmetic is done here.
package timeutil

import (
	"fmt"
	"time"
)

// offsetLayout always renders a numeric UTC offset, never a bare "Z".
const offsetLayout = "2006-01-02T15:04:05-07:00"

// Clock holds the single configured civil timezone. It is an immutable
// snapshot threaded into components at construction; nothing mutates it.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewClockAt pins "now" for tests.
func NewClockAt(timezone string, now time.Time) (*Clock, error) {
	c, err := NewClock(timezone)
	if err != nil {
		return nil, err
	}
	c.now = func() time.Time { return now }
	return c, nil
}

func (c *Clock) Location() *time.Location { return c.loc }

// LocalNow returns the current instant expressed in the configured zone.
func (c *Clock) LocalNow() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) ToUTC(t time.Time) time.Time {
	return t.UTC()
}

func (c *Clock) FromUTC(t time.Time) time.Time {
	return t.In(c.loc)
}

// Local builds a wall-clock time in the configured zone. Skipped or repeated
// wall-clock hours around DST transitions resolve per the zone database.
func (c *Clock) Local(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, c.loc)
}

// FormatOffset renders t as ISO-8601 with an explicit UTC offset, converting
// into the configured zone first.
func (c *Clock) FormatOffset(t time.Time) string {
	return t.In(c.loc).Format(offsetLayout)
}

// ParseLocalDate parses a YYYY-MM-DD calendar date as local midnight.
func (c *Clock) ParseLocalDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, c.loc)
}

// EndOfLocalDay returns the last second of t's calendar day in the
// configured zone, for inclusive range queries against UTC storage.
func (c *Clock) EndOfLocalDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, c.loc)
}
