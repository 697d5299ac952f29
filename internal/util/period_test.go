package util

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"wednesday", date(2026, 10, 14), date(2026, 10, 12), date(2026, 10, 18)},
		{"monday", date(2026, 10, 12), date(2026, 10, 12), date(2026, 10, 18)},
		{"sunday", date(2026, 10, 18), date(2026, 10, 12), date(2026, 10, 18)},
		{"across year", date(2026, 1, 1), date(2025, 12, 29), date(2026, 1, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.in)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("WeekBounds(%s) = (%s, %s), want (%s, %s)",
					tt.in.Format(DateLayout), start.Format(DateLayout), end.Format(DateLayout),
					tt.wantStart.Format(DateLayout), tt.wantEnd.Format(DateLayout))
			}
		})
	}
}

func TestMonthBounds_LeapYear(t *testing.T) {
	start, end := MonthBounds(date(2028, 2, 10))
	if !start.Equal(date(2028, 2, 1)) {
		t.Errorf("Expected start 2028-02-01, got %s", start.Format(DateLayout))
	}
	if !end.Equal(date(2028, 2, 29)) {
		t.Errorf("Expected end 2028-02-29, got %s", end.Format(DateLayout))
	}
}

func TestYearBounds(t *testing.T) {
	start, end := YearBounds(date(2026, 7, 4))
	if !start.Equal(date(2026, 1, 1)) || !end.Equal(date(2026, 12, 31)) {
		t.Errorf("YearBounds = (%s, %s)", start.Format(DateLayout), end.Format(DateLayout))
	}
}

func TestPreviousWeek(t *testing.T) {
	start, end := PreviousWeek(date(2026, 10, 14))
	if !start.Equal(date(2026, 10, 5)) || !end.Equal(date(2026, 10, 11)) {
		t.Errorf("PreviousWeek = (%s, %s), want (2026-10-05, 2026-10-11)",
			start.Format(DateLayout), end.Format(DateLayout))
	}
}

func TestDaysInRange(t *testing.T) {
	days := DaysInRange(date(2026, 2, 27), date(2026, 3, 2))
	if len(days) != 4 {
		t.Fatalf("Expected 4 days, got %d", len(days))
	}
	if !days[2].Equal(date(2026, 3, 1)) {
		t.Errorf("Expected third day 2026-03-01, got %s", days[2].Format(DateLayout))
	}

	if got := DaysInRange(date(2026, 3, 2), date(2026, 3, 1)); got != nil {
		t.Errorf("Expected nil for inverted range, got %v", got)
	}
}

func TestDayCount(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int64
	}{
		{"same day", date(2026, 3, 1), date(2026, 3, 1), 1},
		{"across february", date(2026, 2, 27), date(2026, 3, 2), 4},
		{"leap year", date(2024, 1, 1), date(2024, 12, 31), 366},
		{"inverted", date(2026, 3, 2), date(2026, 3, 1), 0},
		{"whole calendar", date(1, 1, 1), date(9999, 12, 31), 3652059},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayCount(tt.from, tt.to); got != tt.want {
				t.Errorf("Expected %d days, got %d", tt.want, got)
			}
		})
	}
}

func TestMonthsInRange(t *testing.T) {
	months := MonthsInRange(date(2025, 11, 15), date(2026, 2, 3))
	if len(months) != 4 {
		t.Fatalf("Expected 4 months, got %d", len(months))
	}
	if !months[0].Equal(date(2025, 11, 1)) || !months[3].Equal(date(2026, 2, 1)) {
		t.Errorf("Unexpected months: %v", months)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2026-10-15 ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !got.Equal(date(2026, 10, 15)) {
		t.Errorf("Expected 2026-10-15, got %s", got)
	}

	if _, err := ParseDate("15/10/2026"); err == nil {
		t.Error("Expected error for non-ISO date")
	}
}
