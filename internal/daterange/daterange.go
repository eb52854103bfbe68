// Package daterange resolves dashboard date ranges and the transaction
// queries they map to.
package daterange

import (
	"time"

	"github.com/salesboard-dev/salesboard/internal/model"
)

// Today returns a range whose start and end are both now.
func Today(now time.Time) model.DateRange {
	return model.DateRange{Start: now, End: now}
}

// Yesterday returns a range whose start and end are both now minus one day.
func Yesterday(now time.Time) model.DateRange {
	y := now.AddDate(0, 0, -1)
	return model.DateRange{Start: y, End: y}
}

// ThisWeek returns the Sunday-to-Saturday week containing now.
func ThisWeek(now time.Time) model.DateRange {
	start := now.AddDate(0, 0, -int(now.Weekday()))
	return model.DateRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// LastWeek returns the week before ThisWeek.
func LastWeek(now time.Time) model.DateRange {
	w := ThisWeek(now)
	return model.DateRange{Start: w.Start.AddDate(0, 0, -7), End: w.End.AddDate(0, 0, -7)}
}

// ThisMonth returns the first through the last calendar day of now's month.
func ThisMonth(now time.Time) model.DateRange {
	y, m, _ := now.Date()
	loc := now.Location()
	return model.DateRange{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		// Day 0 of the next month is the last day of this one.
		End: time.Date(y, m+1, 0, 0, 0, 0, 0, loc),
	}
}
