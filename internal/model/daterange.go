package model

import "time"

// DateRange is an inclusive pair of dates. Preset ranges are valid by
// construction; custom ranges are checked before use.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !r.End.Before(r.Start)
}
