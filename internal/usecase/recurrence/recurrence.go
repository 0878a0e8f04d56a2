package recurrence

import (
	"cloud.google.com/go/civil"
	"github.com/simaogato/bookkeeper-backend/internal/domain"
)

// Occurrence is one logical member of a monthly series
type Occurrence struct {
	Installment int // 1-based position
	Date        civil.Date
}

// Schedule is a monthly series anchored on a start date.
// Occurrences are computed on demand; nothing is materialized until a
// caller asks for a bounded number of them.
type Schedule struct {
	Start     civil.Date
	Count     int  // Explicit installment count, ignored when OpenEnded
	OpenEnded bool // Fixed monthly series without a bounded total
}

// New validates and builds a schedule
func New(start civil.Date, count int, openEnded bool) (Schedule, error) {
	if !start.IsValid() {
		return Schedule{}, domain.InvalidInputf("start date %q is not a valid date", start.String())
	}
	if !openEnded && count < 1 {
		return Schedule{}, domain.InvalidInputf("installment count must be at least 1, got %d", count)
	}
	return Schedule{Start: start, Count: count, OpenEnded: openEnded}, nil
}

// IsSeries reports whether the schedule produces a recurrence group.
// A single installment without the fixed flag is a standalone forecast.
func (s Schedule) IsSeries() bool {
	return s.OpenEnded || s.Count > 1
}

// Total is the installment total stored on every member of the series
func (s Schedule) Total() int {
	if s.OpenEnded {
		return domain.OpenEndedTotal
	}
	return s.Count
}

// At returns the occurrence at a zero-based month offset.
// The date is computed from Start, never chained from the previous member,
// so a day clamped in a short month is restored in the following ones.
func (s Schedule) At(offset int) (Occurrence, bool) {
	if offset < 0 {
		return Occurrence{}, false
	}
	if !s.OpenEnded && offset >= s.Count {
		return Occurrence{}, false
	}
	return Occurrence{
		Installment: offset + 1,
		Date:        domain.AddMonths(s.Start, offset),
	}, true
}

// Take returns up to n occurrences starting at offset 0.
// Bounded schedules never return more than Count.
func (s Schedule) Take(n int) []Occurrence {
	return s.Slice(0, n)
}

// Slice returns up to n occurrences starting at offset from
func (s Schedule) Slice(from, n int) []Occurrence {
	if n <= 0 || from < 0 {
		return nil
	}

	occurrences := make([]Occurrence, 0, n)
	for offset := from; offset < from+n; offset++ {
		occ, ok := s.At(offset)
		if !ok {
			break
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences
}
