package testfixtures

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"worktime.service/internal/core/model"
)

// errNoRows mirrors the database/sql contract for missing rows so the
// service layer sees the same sentinel as with the Postgres repository.
var errNoRows = sql.ErrNoRows

// MemoryRepository is an in-memory implementation of the repository contract,
// good enough for service and handler tests. It honours the same contracts as
// the Postgres implementation: per-date entries come back ordered by check-in
// ascending, the open-entry lookup prefers the most recently created row, and
// every read or write is scoped by the owning user.
type MemoryRepository struct {
	mu        sync.Mutex
	nextID    int64
	entries   map[int64]model.TimeEntry
	schedules map[int64]model.WorkSchedule
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:    1,
		entries:   make(map[int64]model.TimeEntry),
		schedules: make(map[int64]model.WorkSchedule),
	}
}

// SeedEntry inserts an entry directly, returning its assigned id.
func (r *MemoryRepository) SeedEntry(entry model.TimeEntry) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	r.entries[entry.ID] = entry
	return entry.ID
}

// SeedSchedule inserts a schedule directly, returning its assigned id.
func (r *MemoryRepository) SeedSchedule(schedule model.WorkSchedule) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule.ID = r.nextID
	r.nextID++
	r.schedules[schedule.ID] = schedule
	return schedule.ID
}

func (r *MemoryRepository) ListEntriesByDate(ctx context.Context, userID, date string) ([]model.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TimeEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Date == date {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (r *MemoryRepository) FindOpenEntry(ctx context.Context, userID string) (*model.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open *model.TimeEntry
	for id := range r.entries {
		e := r.entries[id]
		if e.UserID == userID && e.CheckOut == nil {
			if open == nil || e.ID > open.ID {
				open = &e
			}
		}
	}
	if open == nil {
		return nil, nil
	}
	copied := *open
	return &copied, nil
}

func (r *MemoryRepository) GetEntry(ctx context.Context, id int64) (*model.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, errNoRows
	}
	return &e, nil
}

func (r *MemoryRepository) CreateCheckIn(ctx context.Context, userID, date string, checkIn time.Time) (int64, error) {
	return r.SeedEntry(model.TimeEntry{
		UserID:      userID,
		Date:        date,
		CheckIn:     checkIn,
		EmailStatus: model.StatusEmailPending,
	}), nil
}

func (r *MemoryRepository) UpdateCheckOut(ctx context.Context, id int64, checkOut time.Time, workingHours float64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return errNoRows
	}
	e.CheckOut = &checkOut
	e.WorkingHours = &workingHours
	e.EmailStatus = model.StatusEmailPending
	r.entries[id] = e
	return nil
}

func (r *MemoryRepository) UpdateEntry(ctx context.Context, userID string, entry model.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.entries[entry.ID]
	if !ok || existing.UserID != userID {
		return errNoRows
	}
	entry.UserID = userID
	r.entries[entry.ID] = entry
	return nil
}

func (r *MemoryRepository) DeleteEntry(ctx context.Context, userID string, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(r.entries, id)
	return true, nil
}

func (r *MemoryRepository) UpdateEmailStatus(ctx context.Context, id int64, status model.EmailStatus, retryCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return errNoRows
	}
	e.EmailStatus = status
	e.EmailRetryCount = retryCount
	r.entries[id] = e
	return nil
}

func (r *MemoryRepository) ListSchedulesByDate(ctx context.Context, userID, date string) ([]model.WorkSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.WorkSchedule
	for _, s := range r.schedules {
		if s.UserID == userID && s.Date == date {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *MemoryRepository) ListSchedulesByMonth(ctx context.Context, userID string, year int, month time.Month) ([]model.WorkSchedule, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from := first.Format("2006-01-02")
	to := first.AddDate(0, 1, 0).Format("2006-01-02")

	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.WorkSchedule
	for _, s := range r.schedules {
		if s.UserID == userID && s.Date >= from && s.Date < to {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *MemoryRepository) CreateSchedule(ctx context.Context, schedule model.WorkSchedule) (int64, error) {
	return r.SeedSchedule(schedule), nil
}

func (r *MemoryRepository) UpdateSchedule(ctx context.Context, userID string, schedule model.WorkSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.schedules[schedule.ID]
	if !ok || existing.UserID != userID {
		return errNoRows
	}
	schedule.UserID = userID
	r.schedules[schedule.ID] = schedule
	return nil
}

func (r *MemoryRepository) DeleteSchedule(ctx context.Context, userID string, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(r.schedules, id)
	return true, nil
}
