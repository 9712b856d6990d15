package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"worktime.service/internal/core/aggregate"
	"worktime.service/internal/core/model"
	"worktime.service/internal/core/timecalc"
	"worktime.service/internal/ports/messaging"
	"worktime.service/internal/ports/repository"
)

// ErrNotFound is returned when the target entry or schedule does not exist
// for the requesting user.
var ErrNotFound = errors.New("record not found")

// DayOverview is everything the presentation layer needs for one work day.
type DayOverview struct {
	Date       string            `json:"date"`
	Entries    []model.TimeEntry `json:"entries"`
	CheckedIn  bool              `json:"checkedIn"`
	OpenEntry  *model.TimeEntry  `json:"openEntry,omitempty"`
	OpenCount  int               `json:"openCount"`
	TotalHours float64           `json:"totalHours"`
	Formatted  string            `json:"formatted"`
}

// MonthPlan is a month's schedule blocks with their planned-hours rollup.
type MonthPlan struct {
	Schedules []model.WorkSchedule     `json:"schedules"`
	Summary   aggregate.MonthlySummary `json:"summary"`
}

type TrackerService struct {
	repo     repository.Repository
	producer messaging.SummaryProducer
	clock    Clock
}

// NewTrackerService creates the main application service, wiring up the
// database repository, the message queue producer and the time source.
func NewTrackerService(repo repository.Repository, p messaging.SummaryProducer, clock Clock) *TrackerService {
	return &TrackerService{
		repo:     repo,
		producer: p,
		clock:    clock,
	}
}

// ToggleClock is the core check-in/check-out action. It figures out whether
// the user is clocking in or out by looking for an open entry: none means a
// new session starts now, otherwise the newest open one is closed.
func (s *TrackerService) ToggleClock(ctx context.Context, userID string) (*model.TimeEntry, error) {
	now := s.clock.Now()

	open, err := s.repo.FindOpenEntry(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open entry: %w", err)
	}

	if open == nil {
		return s.checkIn(ctx, userID, now)
	}

	return s.checkOut(ctx, open, now)
}

func (s *TrackerService) checkIn(ctx context.Context, userID string, now time.Time) (*model.TimeEntry, error) {
	date := now.Format("2006-01-02")

	id, err := s.repo.CreateCheckIn(ctx, userID, date, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create check-in record: %w", err)
	}

	return &model.TimeEntry{
		ID:          id,
		UserID:      userID,
		Date:        date,
		CheckIn:     now,
		EmailStatus: model.StatusEmailPending,
	}, nil
}

func (s *TrackerService) checkOut(ctx context.Context, entry *model.TimeEntry, now time.Time) (*model.TimeEntry, error) {
	hours := timecalc.HoursBetween(entry.CheckIn, now)

	if err := s.repo.UpdateCheckOut(ctx, entry.ID, now, hours, entry.UserID); err != nil {
		return nil, fmt.Errorf("failed to update check-out record: %w", err)
	}

	closed := *entry
	closed.CheckOut = &now
	closed.WorkingHours = &hours

	event := messaging.CheckOutEvent{
		EntryID:      entry.ID,
		UserID:       entry.UserID,
		Date:         entry.Date,
		WorkingHours: hours,
		CheckOutTime: now,
	}
	if err := s.producer.PublishCheckOut(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to publish check-out event: %w", err)
	}

	return &closed, nil
}

// Day loads one work day's entries and derives its live state. The total for
// an open session follows the injected clock, so callers polling on a timer
// see it advance.
func (s *TrackerService) Day(ctx context.Context, userID, date string) (*DayOverview, error) {
	entries, err := s.repo.ListEntriesByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	state, err := aggregate.DeriveCheckedInState(entries)
	if err != nil {
		return nil, err
	}
	total, err := aggregate.DailyTotal(entries, s.clock.Now())
	if err != nil {
		return nil, err
	}

	return &DayOverview{
		Date:       date,
		Entries:    entries,
		CheckedIn:  state.CheckedIn,
		OpenEntry:  state.OpenEntry,
		OpenCount:  state.OpenCount,
		TotalHours: total,
		Formatted:  timecalc.Format(&total, false),
	}, nil
}

// UpdateEntry applies a manual edit. The derived hours are always recomputed
// from the new timestamp pair; whatever the caller thinks they should be is
// ignored. A checkout before the check-in is read as crossing midnight.
func (s *TrackerService) UpdateEntry(ctx context.Context, userID string, id int64, date string, checkIn time.Time, checkOut *time.Time) (*model.TimeEntry, error) {
	original, err := s.repo.GetEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	if original.UserID != userID {
		return nil, ErrNotFound
	}

	edited := aggregate.ResolveEditedEntry(*original, checkIn, checkOut)
	if date != "" {
		edited.Date = date
	}

	if err := s.repo.UpdateEntry(ctx, userID, edited); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return &edited, nil
}

// DeleteEntry removes one of the user's entries.
func (s *TrackerService) DeleteEntry(ctx context.Context, userID string, id int64) error {
	deleted, err := s.repo.DeleteEntry(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// CreateSchedule stores a planned block. PlannedHours is derived from the
// HH:MM pair here, never taken from the request.
func (s *TrackerService) CreateSchedule(ctx context.Context, schedule model.WorkSchedule) (*model.WorkSchedule, error) {
	hours, err := timecalc.HoursBetweenClock(schedule.StartTime, schedule.EndTime)
	if err != nil {
		return nil, err
	}
	schedule.PlannedHours = hours

	id, err := s.repo.CreateSchedule(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	schedule.ID = id
	return &schedule, nil
}

// UpdateSchedule overwrites a planned block, recomputing its derived hours.
func (s *TrackerService) UpdateSchedule(ctx context.Context, userID string, schedule model.WorkSchedule) (*model.WorkSchedule, error) {
	hours, err := timecalc.HoursBetweenClock(schedule.StartTime, schedule.EndTime)
	if err != nil {
		return nil, err
	}
	schedule.PlannedHours = hours
	schedule.UserID = userID

	if err := s.repo.UpdateSchedule(ctx, userID, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return &schedule, nil
}

// DeleteSchedule removes one of the user's planned blocks.
func (s *TrackerService) DeleteSchedule(ctx context.Context, userID string, id int64) error {
	deleted, err := s.repo.DeleteSchedule(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Month loads a month's planned blocks with their rollup.
func (s *TrackerService) Month(ctx context.Context, userID string, year int, month time.Month) (*MonthPlan, error) {
	schedules, err := s.repo.ListSchedulesByMonth(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	summary, err := aggregate.MonthlyPlannedSummary(schedules, year, month)
	if err != nil {
		return nil, err
	}

	return &MonthPlan{Schedules: schedules, Summary: summary}, nil
}

// UpdateEmailStatus is a simple pass-through to the repository layer, used
// by the background worker to track the summary email job.
func (s *TrackerService) UpdateEmailStatus(ctx context.Context, id int64, status model.EmailStatus, retryCount int) error {
	return s.repo.UpdateEmailStatus(ctx, id, status, retryCount)
}
