package valueobject

import (
	"testing"
	"time"
)

func TestPreviousPeriod(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	tests := []struct {
		name string
		now  time.Time
		want Period
	}{
		{"mid year", time.Date(2024, 7, 1, 9, 0, 0, 0, loc), Period{2024, time.June}},
		{"january wraps to december", time.Date(2024, 1, 1, 9, 0, 0, 0, loc), Period{2023, time.December}},
		{"march", time.Date(2024, 3, 15, 0, 0, 0, 0, loc), Period{2024, time.February}},
		// 2024-01-31 20:00 UTC is already February 1st in Kolkata.
		{"local calendar decides", time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC), Period{2024, time.January}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviousPeriod(tt.now, loc); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		name    string
		period  Period
		lastDay int
	}{
		{"leap february", Period{2024, time.February}, 29},
		{"non-leap february", Period{2023, time.February}, 28},
		{"century non-leap february", Period{2100, time.February}, 28},
		{"thirty day month", Period{2024, time.April}, 30},
		{"december", Period{2024, time.December}, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.period.Window(time.UTC)

			wantStart := time.Date(tt.period.Year, tt.period.Month, 1, 0, 0, 0, 0, time.UTC)
			if !start.Equal(wantStart) {
				t.Errorf("expected start %v, got %v", wantStart, start)
			}

			wantEnd := time.Date(tt.period.Year, tt.period.Month, tt.lastDay, 23, 59, 59, int(999*time.Millisecond), time.UTC)
			if !end.Equal(wantEnd) {
				t.Errorf("expected end %v, got %v", wantEnd, end)
			}

			if tt.period.Days() != tt.lastDay {
				t.Errorf("expected %d days, got %d", tt.lastDay, tt.period.Days())
			}
		})
	}
}

func TestNewPeriod(t *testing.T) {
	if _, err := NewPeriod(2024, 0); err == nil {
		t.Error("expected error for month 0")
	}
	if _, err := NewPeriod(2024, 13); err == nil {
		t.Error("expected error for month 13")
	}
	if _, err := NewPeriod(1999, 5); err == nil {
		t.Error("expected error for year 1999")
	}
	p, err := NewPeriod(2024, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Label() != "February 2024" {
		t.Errorf("unexpected label %q", p.Label())
	}
	if p.Key() != "2024-02" {
		t.Errorf("unexpected key %q", p.Key())
	}
}
