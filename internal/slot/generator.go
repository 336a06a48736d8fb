// Package slot derives the universe of bookable half-hour slots from the
// business-hours rules and reconciles it against already-booked slot ids.
package slot

import (
	"time"

	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/timeutil"
)

// Business-hours rules, expressed in the configured local zone.
const (
	OpenHour  = 9
	CloseHour = 17
	LunchHour = 12

	Duration = 30 * time.Minute
)

// Generate produces the ordered candidate slots for a provider between two
// local calendar dates, inclusive. Weekends are skipped, the 12:00 start is
// excluded (the 12:30 start is intentionally kept, matching observed
// behavior rather than a full lunch-window exclusion), and slots starting at
// or before now are dropped entirely rather than marked unavailable.
//
// Callers validate the date range and provider before calling; an inverted
// range simply yields no slots.
func Generate(clock *timeutil.Clock, providerID string, startDate, endDate, now time.Time, booked map[string]struct{}) []model.Slot {
	var slots []model.Slot

	for d := startDate.In(clock.Location()); !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for hour := OpenHour; hour < CloseHour; hour++ {
			for _, minute := range []int{0, 30} {
				if hour == LunchHour && minute == 0 {
					continue
				}
				start := clock.Local(d.Year(), d.Month(), d.Day(), hour, minute)
				if !start.After(now) {
					continue
				}
				id := EncodeID(providerID, start.UTC())
				_, taken := booked[id]
				slots = append(slots, model.Slot{
					ID:        id,
					StartTime: start,
					EndTime:   start.Add(Duration),
					Available: !taken,
				})
			}
		}
	}
	return slots
}
