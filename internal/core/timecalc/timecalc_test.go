package timecalc

import (
	"math"
	"testing"
	"time"
)

func TestHoursBetween(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want float64
	}{
		{"three hours", start.Add(3 * time.Hour), 3},
		{"ninety minutes", start.Add(90 * time.Minute), 1.5},
		{"sub-minute resolution", start.Add(90 * time.Second), 0.025},
		{"zero", start, 0},
		{"reversed pair stays negative", start.Add(-2 * time.Hour), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HoursBetween(start, tt.end); got != tt.want {
				t.Fatalf("HoursBetween() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHoursBetweenMatchesMilliseconds(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(7*time.Hour + 23*time.Minute + 45*time.Second)

	want := float64(end.Sub(start).Milliseconds()) / 3_600_000
	if got := HoursBetween(start, end); math.Abs(got-want) > 1e-9 {
		t.Fatalf("HoursBetween() = %v, want %v", got, want)
	}
}

func TestHoursBetweenClock(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"regular day shift", "09:00", "18:00", 9},
		{"overnight rollover", "22:00", "06:00", 8},
		{"equal times yield zero not a full day", "09:00", "09:00", 0},
		{"one minute before midnight", "23:59", "00:00", 0.02},
		{"half hour", "13:15", "13:45", 0.5},
		{"rounded to two decimals", "09:00", "09:10", 0.17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HoursBetweenClock(tt.start, tt.end)
			if err != nil {
				t.Fatalf("HoursBetweenClock() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("HoursBetweenClock(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestHoursBetweenClockRejectsMalformedInput(t *testing.T) {
	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "12-30"} {
		if _, err := HoursBetweenClock(bad, "12:00"); err == nil {
			t.Errorf("HoursBetweenClock(%q, _) expected error", bad)
		}
		if _, err := HoursBetweenClock("12:00", bad); err == nil {
			t.Errorf("HoursBetweenClock(_, %q) expected error", bad)
		}
	}
}

func TestParts(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		wantH int
		wantM int
	}{
		{"exact hours", 3, 3, 0},
		{"hour and a half", 1.5, 1, 30},
		{"carry when minutes round to sixty", 1.999, 2, 0},
		{"no carry just below threshold", 1.99, 1, 59},
		{"zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := Parts(tt.hours)
			if h != tt.wantH || m != tt.wantM {
				t.Fatalf("Parts(%v) = (%d, %d), want (%d, %d)", tt.hours, h, m, tt.wantH, tt.wantM)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		hours   *float64
		compact bool
		want    string
	}{
		{"long form", ptr(1.5), false, "1 hours 30 minutes"},
		{"long form carries minutes", ptr(1.999), false, "2 hours 0 minutes"},
		{"compact form", ptr(7.5), true, "7.5h"},
		{"zero is not the sentinel", ptr(0), false, "0 hours 0 minutes"},
		{"nil maps to sentinel", nil, false, NoValue},
		{"nil maps to sentinel in compact mode", nil, true, NoValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.hours, tt.compact); got != tt.want {
				t.Fatalf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
