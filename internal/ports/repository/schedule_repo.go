package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"worktime.service/internal/core/model"
)

// ListSchedulesByDate returns a user's planned blocks for one date, ordered
// by start time.
func (r *PostgresRepository) ListSchedulesByDate(ctx context.Context, userID, date string) ([]model.WorkSchedule, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `SELECT id, user_id, date, start_time, end_time, planned_hours, description
              FROM work_schedules
              WHERE user_id = $1 AND date = $2
              ORDER BY start_time ASC`

	return r.querySchedules(ctx, query, userID, date)
}

// ListSchedulesByMonth returns a user's planned blocks for one month as a
// half-open date range, ordered by date then start time.
func (r *PostgresRepository) ListSchedulesByMonth(ctx context.Context, userID string, year int, month time.Month) ([]model.WorkSchedule, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from := first.Format("2006-01-02")
	to := first.AddDate(0, 1, 0).Format("2006-01-02")

	query := `SELECT id, user_id, date, start_time, end_time, planned_hours, description
              FROM work_schedules
              WHERE user_id = $1 AND date >= $2 AND date < $3
              ORDER BY date ASC, start_time ASC`

	return r.querySchedules(ctx, query, userID, from, to)
}

// CreateSchedule inserts a planned block.
func (r *PostgresRepository) CreateSchedule(ctx context.Context, schedule model.WorkSchedule) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", schedule.UserID))

	var id int64
	query := `INSERT INTO work_schedules (user_id, date, start_time, end_time, planned_hours, description)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query,
		schedule.UserID, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.PlannedHours, schedule.Description,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateSchedule overwrites a planned block's time pair, derived hours and description.
func (r *PostgresRepository) UpdateSchedule(ctx context.Context, userID string, schedule model.WorkSchedule) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `UPDATE work_schedules
              SET date = $1,
                  start_time = $2,
                  end_time = $3,
                  planned_hours = $4,
                  description = $5
              WHERE id = $6 AND user_id = $7`

	res, err := r.DB.ExecContext(ctx, query,
		schedule.Date, schedule.StartTime, schedule.EndTime, schedule.PlannedHours, schedule.Description, schedule.ID, userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("schedule %d not found", schedule.ID)
	}
	return nil
}

// DeleteSchedule removes a planned block, reporting whether a row was deleted.
func (r *PostgresRepository) DeleteSchedule(ctx context.Context, userID string, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM work_schedules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresRepository) querySchedules(ctx context.Context, query string, args ...any) ([]model.WorkSchedule, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []model.WorkSchedule
	for rows.Next() {
		var (
			s    model.WorkSchedule
			desc sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.StartTime, &s.EndTime, &s.PlannedHours, &desc); err != nil {
			return nil, err
		}
		s.Description = desc.String
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
