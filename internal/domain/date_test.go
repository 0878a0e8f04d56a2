package domain

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  civil.Date
		months int
		want   civil.Date
	}{
		{"same day next month", civil.Date{Year: 2024, Month: time.January, Day: 15}, 1, civil.Date{Year: 2024, Month: time.February, Day: 15}},
		{"zero offset", civil.Date{Year: 2024, Month: time.January, Day: 15}, 0, civil.Date{Year: 2024, Month: time.January, Day: 15}},
		{"crosses year", civil.Date{Year: 2024, Month: time.November, Day: 10}, 3, civil.Date{Year: 2025, Month: time.February, Day: 10}},
		{"clamps to leap february", civil.Date{Year: 2024, Month: time.January, Day: 31}, 1, civil.Date{Year: 2024, Month: time.February, Day: 29}},
		{"clamps to short february", civil.Date{Year: 2023, Month: time.January, Day: 31}, 1, civil.Date{Year: 2023, Month: time.February, Day: 28}},
		{"keeps day after short month", civil.Date{Year: 2024, Month: time.January, Day: 31}, 2, civil.Date{Year: 2024, Month: time.March, Day: 31}},
		{"clamps to thirty days", civil.Date{Year: 2024, Month: time.March, Day: 31}, 1, civil.Date{Year: 2024, Month: time.April, Day: 30}},
		{"negative offset", civil.Date{Year: 2024, Month: time.January, Day: 15}, -1, civil.Date{Year: 2023, Month: time.December, Day: 15}},
		{"negative offset over a year", civil.Date{Year: 2024, Month: time.January, Day: 15}, -13, civil.Date{Year: 2022, Month: time.December, Day: 15}},
		{"five years", civil.Date{Year: 2024, Month: time.June, Day: 1}, 60, civil.Date{Year: 2029, Month: time.June, Day: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	assert.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 1}, d)

	_, err = ParseDate("01/03/2024")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDateRange_Validate(t *testing.T) {
	jan := civil.Date{Year: 2024, Month: time.January, Day: 1}
	feb := civil.Date{Year: 2024, Month: time.February, Day: 1}

	assert.NoError(t, DateRange{From: jan, To: feb}.Validate())
	assert.NoError(t, DateRange{From: jan, To: jan}.Validate())
	assert.ErrorIs(t, DateRange{From: feb, To: jan}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, DateRange{To: jan}.Validate(), ErrInvalidInput)
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{
		From: civil.Date{Year: 2024, Month: time.January, Day: 1},
		To:   civil.Date{Year: 2024, Month: time.January, Day: 31},
	}

	assert.True(t, r.Contains(r.From))
	assert.True(t, r.Contains(r.To))
	assert.True(t, r.Contains(civil.Date{Year: 2024, Month: time.January, Day: 15}))
	assert.False(t, r.Contains(civil.Date{Year: 2023, Month: time.December, Day: 31}))
	assert.False(t, r.Contains(civil.Date{Year: 2024, Month: time.February, Day: 1}))
}
