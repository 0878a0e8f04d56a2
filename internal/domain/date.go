package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// ParseDate parses a YYYY-MM-DD calendar day
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, InvalidInputf("malformed date %q", s)
	}
	return d, nil
}

// IsZeroDate reports whether d is the zero calendar day
func IsZeroDate(d civil.Date) bool {
	return d == civil.Date{}
}

// AddMonths advances d by the given number of calendar months keeping the
// day of month. When the target month is shorter the day is clamped to its
// last day (Jan 31 + 1 month = Feb 28/29).
func AddMonths(d civil.Date, months int) civil.Date {
	index := int(d.Month) - 1 + months
	yearShift := index / 12
	monthIndex := index % 12
	if monthIndex < 0 {
		monthIndex += 12
		yearShift--
	}

	year := d.Year + yearShift
	month := time.Month(monthIndex + 1)
	day := d.Day
	if last := daysInMonth(year, month); day > last {
		day = last
	}

	return civil.Date{Year: year, Month: month, Day: day}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateRange is an inclusive range of calendar days
type DateRange struct {
	From civil.Date
	To   civil.Date
}

// Validate ensures both ends are valid days and From is not after To
func (r DateRange) Validate() error {
	if !r.From.IsValid() {
		return InvalidInputf("range start %q is not a valid date", r.From.String())
	}
	if !r.To.IsValid() {
		return InvalidInputf("range end %q is not a valid date", r.To.String())
	}
	if r.From.After(r.To) {
		return InvalidInputf("range start %s is after range end %s", r.From, r.To)
	}
	return nil
}

// Contains reports whether d falls inside the range
func (r DateRange) Contains(d civil.Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}
