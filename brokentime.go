package tock

import "time"

// brokenTime is a mutable broken-down calendar tuple used by the advancer.
// The month is 0-based internally (January = 0); the day is 1-based. It
// round-trips with time.Time through a location supplied by the schedule.
type brokenTime struct {
	ms     int
	second int
	minute int
	hour   int
	day    int
	month  int
	year   int
}

// newBrokenTime decomposes t in the given location.
func newBrokenTime(t time.Time, loc *time.Location) *brokenTime {
	t = t.In(loc)
	return &brokenTime{
		ms:     t.Nanosecond() / int(time.Millisecond),
		second: t.Second(),
		minute: t.Minute(),
		hour:   t.Hour(),
		day:    t.Day(),
		month:  int(t.Month()) - 1,
		year:   t.Year(),
	}
}

// time recomposes the tuple as an absolute instant in loc. time.Date
// normalizes out-of-range components, so carries left pending by the
// advancer fold into the calendar correctly.
func (bt *brokenTime) time(loc *time.Location) time.Time {
	return time.Date(bt.year, time.Month(bt.month+1), bt.day,
		bt.hour, bt.minute, bt.second, bt.ms*int(time.Millisecond), loc)
}

// weekday returns the day of week (0 = Sunday) of the tuple's calendar date.
func (bt *brokenTime) weekday() int {
	return weekdayOf(bt.year, bt.month, bt.day)
}

func weekdayOf(year, month0, day int) int {
	return int(time.Date(year, time.Month(month0+1), day, 0, 0, 0, 0, time.UTC).Weekday())
}

// daysInMonth returns the length of the given 0-based month, honoring the
// proleptic Gregorian leap rule.
func daysInMonth(year, month0 int) int {
	// Day zero of the following month.
	return time.Date(year, time.Month(month0+2), 0, 0, 0, 0, 0, time.UTC).Day()
}
