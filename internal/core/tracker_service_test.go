package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"worktime.service/internal/core"
	"worktime.service/internal/core/model"
	"worktime.service/internal/testfixtures"
)

func newService(start time.Time) (*core.TrackerService, *testfixtures.MemoryRepository, *testfixtures.RecordingProducer, *testfixtures.Clock) {
	repo := testfixtures.NewMemoryRepository()
	producer := &testfixtures.RecordingProducer{}
	clock := testfixtures.NewClock(start)
	return core.NewTrackerService(repo, producer, clock), repo, producer, clock
}

func TestToggleClockOpensAndClosesSession(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	svc, _, producer, clock := newService(start)

	entry, err := svc.ToggleClock(ctx, "u1")
	if err != nil {
		t.Fatalf("ToggleClock() error = %v", err)
	}
	if !entry.Open() {
		t.Fatal("first toggle should open a session")
	}
	if entry.Date != "2024-03-14" {
		t.Errorf("Date = %q, want 2024-03-14", entry.Date)
	}
	if !entry.CheckIn.Equal(start) {
		t.Errorf("CheckIn = %v, want %v", entry.CheckIn, start)
	}

	clock.Advance(3 * time.Hour)
	closed, err := svc.ToggleClock(ctx, "u1")
	if err != nil {
		t.Fatalf("ToggleClock() error = %v", err)
	}
	if closed.Open() {
		t.Fatal("second toggle should close the session")
	}
	if closed.WorkingHours == nil || *closed.WorkingHours != 3 {
		t.Fatalf("WorkingHours = %v, want 3", closed.WorkingHours)
	}

	events := producer.Events()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	if events[0].EntryID != closed.ID || events[0].WorkingHours != 3 {
		t.Errorf("event = %+v", events[0])
	}
}

func TestToggleClockClosesNewestOpenEntry(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newService(start.Add(6 * time.Hour))

	// Two open entries from a concurrent check-in race; the newest one is
	// authoritative.
	repo.SeedEntry(model.TimeEntry{UserID: "u1", Date: "2024-03-14", CheckIn: start})
	newest := repo.SeedEntry(model.TimeEntry{UserID: "u1", Date: "2024-03-14", CheckIn: start.Add(4 * time.Hour)})

	closed, err := svc.ToggleClock(ctx, "u1")
	if err != nil {
		t.Fatalf("ToggleClock() error = %v", err)
	}
	if closed.ID != newest {
		t.Fatalf("closed entry %d, want newest open entry %d", closed.ID, newest)
	}
	if *closed.WorkingHours != 2 {
		t.Fatalf("WorkingHours = %v, want 2", *closed.WorkingHours)
	}
}

func TestToggleClockIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newService(start)

	repo.SeedEntry(model.TimeEntry{UserID: "other", Date: "2024-03-14", CheckIn: start.Add(-time.Hour)})

	entry, err := svc.ToggleClock(ctx, "u1")
	if err != nil {
		t.Fatalf("ToggleClock() error = %v", err)
	}
	if !entry.Open() {
		t.Fatal("another user's open session must not be closed")
	}
}

func TestDayLiveTotalFollowsClock(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	svc, repo, _, clock := newService(day.Add(14*time.Hour + 30*time.Minute))

	out := day.Add(12 * time.Hour)
	hours := 3.0
	repo.SeedEntry(model.TimeEntry{UserID: "u1", Date: "2024-03-14", CheckIn: day.Add(9 * time.Hour), CheckOut: &out, WorkingHours: &hours})
	repo.SeedEntry(model.TimeEntry{UserID: "u1", Date: "2024-03-14", CheckIn: day.Add(13 * time.Hour)})

	overview, err := svc.Day(ctx, "u1", "2024-03-14")
	if err != nil {
		t.Fatalf("Day() error = %v", err)
	}
	if !overview.CheckedIn {
		t.Error("expected checked-in state")
	}
	if overview.TotalHours != 4.5 {
		t.Errorf("TotalHours = %v, want 4.5", overview.TotalHours)
	}
	if overview.Formatted != "4 hours 30 minutes" {
		t.Errorf("Formatted = %q", overview.Formatted)
	}

	clock.Advance(30 * time.Minute)
	overview, err = svc.Day(ctx, "u1", "2024-03-14")
	if err != nil {
		t.Fatalf("Day() error = %v", err)
	}
	if overview.TotalHours != 5 {
		t.Errorf("TotalHours after advance = %v, want 5", overview.TotalHours)
	}
}

func TestUpdateEntryRecomputesDerivedHours(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newService(day)

	out := day.Add(12 * time.Hour)
	bogus := 99.0
	id := repo.SeedEntry(model.TimeEntry{UserID: "u1", Date: "2024-03-14", CheckIn: day.Add(9 * time.Hour), CheckOut: &out, WorkingHours: &bogus})

	newOut := day.Add(17*time.Hour + 30*time.Minute)
	edited, err := svc.UpdateEntry(ctx, "u1", id, "", day.Add(10*time.Hour), &newOut)
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if *edited.WorkingHours != 7.5 {
		t.Fatalf("WorkingHours = %v, want 7.5 (stored value must be overwritten)", *edited.WorkingHours)
	}
}

func TestUpdateEntryMidnightRollover(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newService(day)

	id := repo.SeedEntry(model.TimeEntry{UserID: "u1", Date: "2024-03-14", CheckIn: day.Add(9 * time.Hour)})

	newOut := day.Add(6 * time.Hour) // 06:00, before the 22:00 check-in
	edited, err := svc.UpdateEntry(ctx, "u1", id, "", day.Add(22*time.Hour), &newOut)
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if *edited.WorkingHours != 8 {
		t.Fatalf("WorkingHours = %v, want 8", *edited.WorkingHours)
	}
}

func TestUpdateEntryForeignUser(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	svc, repo, _, _ := newService(day)

	id := repo.SeedEntry(model.TimeEntry{UserID: "other", Date: "2024-03-14", CheckIn: day.Add(9 * time.Hour)})

	_, err := svc.UpdateEntry(ctx, "u1", id, "", day.Add(10*time.Hour), nil)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteEntryNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService(time.Now())

	if err := svc.DeleteEntry(ctx, "u1", 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestScheduleWritesDerivePlannedHours(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService(time.Now())

	created, err := svc.CreateSchedule(ctx, model.WorkSchedule{
		UserID:       "u1",
		Date:         "2024-03-04",
		StartTime:    "22:00",
		EndTime:      "06:00",
		PlannedHours: 123, // caller-supplied value is a hint, not ground truth
	})
	if err != nil {
		t.Fatalf("CreateSchedule() error = %v", err)
	}
	if created.PlannedHours != 8 {
		t.Fatalf("PlannedHours = %v, want 8 (overnight block)", created.PlannedHours)
	}

	created.StartTime = "09:00"
	created.EndTime = "18:00"
	updated, err := svc.UpdateSchedule(ctx, "u1", *created)
	if err != nil {
		t.Fatalf("UpdateSchedule() error = %v", err)
	}
	if updated.PlannedHours != 9 {
		t.Fatalf("PlannedHours = %v, want 9", updated.PlannedHours)
	}
}

func TestCreateScheduleRejectsMalformedTimes(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService(time.Now())

	_, err := svc.CreateSchedule(ctx, model.WorkSchedule{UserID: "u1", Date: "2024-03-04", StartTime: "9am", EndTime: "18:00"})
	if err == nil {
		t.Fatal("expected error for malformed start time")
	}
}

func TestMonthRollsUpSchedules(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newService(time.Now())

	repo.SeedSchedule(model.WorkSchedule{UserID: "u1", Date: "2024-03-04", StartTime: "09:00", EndTime: "12:00", PlannedHours: 3})
	repo.SeedSchedule(model.WorkSchedule{UserID: "u1", Date: "2024-03-04", StartTime: "13:00", EndTime: "18:00", PlannedHours: 5})
	repo.SeedSchedule(model.WorkSchedule{UserID: "u1", Date: "2024-03-05", StartTime: "09:00", EndTime: "13:00", PlannedHours: 4})
	// A different month and a different user stay out of the rollup.
	repo.SeedSchedule(model.WorkSchedule{UserID: "u1", Date: "2024-04-01", StartTime: "09:00", EndTime: "10:00", PlannedHours: 1})
	repo.SeedSchedule(model.WorkSchedule{UserID: "other", Date: "2024-03-04", StartTime: "09:00", EndTime: "10:00", PlannedHours: 1})

	plan, err := svc.Month(ctx, "u1", 2024, time.March)
	if err != nil {
		t.Fatalf("Month() error = %v", err)
	}
	if len(plan.Schedules) != 3 {
		t.Fatalf("Schedules = %d, want 3", len(plan.Schedules))
	}
	if plan.Summary.TotalHours != 12 || plan.Summary.DayCount != 2 || plan.Summary.AvgHoursPerDay != 6 {
		t.Fatalf("Summary = %+v", plan.Summary)
	}
}

func TestCheckOutFailsWhenPublishFails(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	svc, repo, producer, _ := newService(start.Add(time.Hour))

	repo.SeedEntry(model.TimeEntry{UserID: "u1", Date: "2024-03-14", CheckIn: start})
	producer.Err = errors.New("queue unavailable")

	if _, err := svc.ToggleClock(ctx, "u1"); err == nil {
		t.Fatal("expected error when the event cannot be published")
	}
}
