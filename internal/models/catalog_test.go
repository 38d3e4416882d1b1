package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestTotalWeeksFor(t *testing.T) {
	// 14 inclusive days is exactly two weeks.
	assert.Equal(t, 2, TotalWeeksFor(date(2026, 3, 2), date(2026, 3, 15)))
	// 15 days rounds up to three.
	assert.Equal(t, 3, TotalWeeksFor(date(2026, 3, 2), date(2026, 3, 16)))
	// A single day is one week.
	assert.Equal(t, 1, TotalWeeksFor(date(2026, 3, 2), date(2026, 3, 2)))
	// Missing or inverted ranges yield zero.
	assert.Equal(t, 0, TotalWeeksFor(nil, date(2026, 3, 2)))
	assert.Equal(t, 0, TotalWeeksFor(date(2026, 3, 2), nil))
	assert.Equal(t, 0, TotalWeeksFor(date(2026, 3, 16), date(2026, 3, 2)))
}

func TestDayIndexUnknownSortsLast(t *testing.T) {
	assert.Equal(t, 0, DayIndex("周一"))
	assert.Equal(t, 6, DayIndex("周日"))
	assert.Equal(t, 7, DayIndex("holiday"))
}

func TestSortedTimeslotIDs(t *testing.T) {
	c := &Catalog{TimeSlots: map[int64]TimeSlot{
		1: {ID: 1, DayOfWeek: "周二", Period: 1},
		2: {ID: 2, DayOfWeek: "周一", Period: 2},
		3: {ID: 3, DayOfWeek: "周一", Period: 1},
	}}
	assert.Equal(t, []int64{3, 2, 1}, c.SortedTimeslotIDs())
}
