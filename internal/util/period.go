package util

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used in requests and responses
const DateLayout = "2006-01-02"

// DateOnly truncates t to midnight UTC of the same calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// WeekBounds returns the Monday and Sunday of the week containing t
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := DateOnly(t)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of the month containing t
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of next month is the last day of this one
	end := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// YearBounds returns January 1st and December 31st of the year containing t
func YearBounds(t time.Time) (time.Time, time.Time) {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// PreviousWeek returns the bounds of the full week before the one containing t
func PreviousWeek(t time.Time) (time.Time, time.Time) {
	start, _ := WeekBounds(t)
	return WeekBounds(start.AddDate(0, 0, -1))
}

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// DayCount is the number of calendar days from `from` to `to`, inclusive; 0 when inverted
func DayCount(from, to time.Time) int64 {
	from, to = DateOnly(from), DateOnly(to)
	if to.Before(from) {
		return 0
	}
	return (to.Unix()-from.Unix())/(24*60*60) + 1
}

// DaysInRange lists every calendar day from `from` to `to`, inclusive
func DaysInRange(from, to time.Time) []time.Time {
	from, to = DateOnly(from), DateOnly(to)
	if to.Before(from) {
		return nil
	}
	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthsInRange lists the first day of each month touched by the range
func MonthsInRange(from, to time.Time) []time.Time {
	start, _ := MonthBounds(from)
	last, _ := MonthBounds(to)
	var months []time.Time
	for m := start; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}
