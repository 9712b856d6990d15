package repository

import (
	"context"
	"time"

	"worktime.service/internal/core/model"
)

// Repository is the persistence contract for time entries and work schedules.
// Every method is scoped by the owning user; ListEntriesByDate returns entries
// ordered by check-in ascending, which the aggregation layer relies on.
type Repository interface {
	ListEntriesByDate(ctx context.Context, userID, date string) ([]model.TimeEntry, error)
	FindOpenEntry(ctx context.Context, userID string) (*model.TimeEntry, error)
	GetEntry(ctx context.Context, id int64) (*model.TimeEntry, error)
	CreateCheckIn(ctx context.Context, userID, date string, checkIn time.Time) (int64, error)
	UpdateCheckOut(ctx context.Context, id int64, checkOut time.Time, workingHours float64, userID string) error
	UpdateEntry(ctx context.Context, userID string, entry model.TimeEntry) error
	DeleteEntry(ctx context.Context, userID string, id int64) (bool, error)
	UpdateEmailStatus(ctx context.Context, id int64, status model.EmailStatus, retryCount int) error

	ListSchedulesByDate(ctx context.Context, userID, date string) ([]model.WorkSchedule, error)
	ListSchedulesByMonth(ctx context.Context, userID string, year int, month time.Month) ([]model.WorkSchedule, error)
	CreateSchedule(ctx context.Context, schedule model.WorkSchedule) (int64, error)
	UpdateSchedule(ctx context.Context, userID string, schedule model.WorkSchedule) error
	DeleteSchedule(ctx context.Context, userID string, id int64) (bool, error)
}
