// Package aggregate derives session state and working-time summaries from
// record collections already loaded by the repository layer. Everything here
// is pure: inputs in, values out, no clock and no store access.
package aggregate

import (
	"fmt"
	"time"

	"worktime.service/internal/core/model"
	"worktime.service/internal/core/timecalc"
)

// CheckedInState is the derived "am I clocked in right now" answer for a day.
// OpenCount reports how many entries are open; anything above one means the
// store holds inconsistent data and the caller should log or repair it, but
// the last entry still decides the state.
type CheckedInState struct {
	CheckedIn bool
	OpenEntry *model.TimeEntry
	OpenCount int
}

// MonthlySummary is the planned-hours rollup for one month of schedules.
type MonthlySummary struct {
	TotalHours     float64 `json:"totalHours"`
	DayCount       int     `json:"dayCount"`
	AvgHoursPerDay float64 `json:"avgHoursPerDay"`
}

// DeriveCheckedInState inspects a day's entries, ordered by check-in
// ascending, and reports whether the user is currently checked in. Only the
// chronologically last entry decides; earlier open entries are counted but
// never reconciled here.
func DeriveCheckedInState(entries []model.TimeEntry) (CheckedInState, error) {
	if err := validateOrdered(entries); err != nil {
		return CheckedInState{}, err
	}

	var state CheckedInState
	for i := range entries {
		if entries[i].Open() {
			state.OpenCount++
		}
	}
	if len(entries) == 0 {
		return state, nil
	}

	last := &entries[len(entries)-1]
	if last.Open() {
		state.CheckedIn = true
		state.OpenEntry = last
	}
	return state, nil
}

// DailyTotal sums a day's working hours as of now. Closed entries contribute
// their stored hours; an open entry contributes the time elapsed since its
// check-in. Callers re-invoke with a fresh now to drive a live display.
func DailyTotal(entries []model.TimeEntry, now time.Time) (float64, error) {
	var total float64
	for i := range entries {
		e := &entries[i]
		if e.CheckIn.IsZero() {
			return 0, fmt.Errorf("entry %d has no check-in", e.ID)
		}
		switch {
		case e.WorkingHours != nil:
			total += *e.WorkingHours
		case e.Open():
			total += timecalc.HoursBetween(e.CheckIn, now)
		}
	}
	return total, nil
}

// MonthlyPlannedSummary rolls schedules up into the month's planned totals.
// DayCount counts distinct dates, not schedule rows, so a day with several
// blocks counts once. An empty input yields a zero summary. Schedules dated
// outside the claimed month violate the caller contract and are rejected.
func MonthlyPlannedSummary(schedules []model.WorkSchedule, year int, month time.Month) (MonthlySummary, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))

	var summary MonthlySummary
	days := make(map[string]struct{})
	for i := range schedules {
		s := &schedules[i]
		if len(s.Date) < len(prefix) || s.Date[:len(prefix)] != prefix {
			return MonthlySummary{}, fmt.Errorf("schedule %d dated %s is outside %04d-%02d", s.ID, s.Date, year, int(month))
		}
		summary.TotalHours += s.PlannedHours
		days[s.Date] = struct{}{}
	}

	summary.DayCount = len(days)
	if summary.DayCount > 0 {
		summary.AvgHoursPerDay = summary.TotalHours / float64(summary.DayCount)
	}
	return summary, nil
}

// ResolveEditedEntry applies a manual timestamp edit and recomputes the
// derived hours. A checkout earlier than the check-in means the edited HH:MM
// pair crosses midnight against a fixed date, so a full day is added before
// taking the difference. The original is not mutated.
func ResolveEditedEntry(original model.TimeEntry, newCheckIn time.Time, newCheckOut *time.Time) model.TimeEntry {
	edited := original
	edited.CheckIn = newCheckIn
	edited.CheckOut = nil
	edited.WorkingHours = nil

	if newCheckOut == nil {
		return edited
	}

	out := *newCheckOut
	if out.Before(newCheckIn) {
		out = out.Add(24 * time.Hour)
	}
	hours := timecalc.HoursBetween(newCheckIn, out)
	edited.CheckOut = &out
	edited.WorkingHours = &hours
	return edited
}

// validateOrdered enforces the repository contract: every entry carries a
// check-in and the slice is sorted by check-in ascending.
func validateOrdered(entries []model.TimeEntry) error {
	for i := range entries {
		if entries[i].CheckIn.IsZero() {
			return fmt.Errorf("entry %d has no check-in", entries[i].ID)
		}
		if i > 0 && entries[i].CheckIn.Before(entries[i-1].CheckIn) {
			return fmt.Errorf("entries not ordered by check-in at index %d", i)
		}
	}
	return nil
}
