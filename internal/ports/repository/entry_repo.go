package repository

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"worktime.service/internal/core/model"
)

// PostgresRepository is the concrete implementation for a PostgreSQL database.
type PostgresRepository struct {
	DB *sql.DB
}

// NewPostgresRepository create new instance
func NewPostgresRepository(db *sql.DB) Repository {
	return &PostgresRepository{DB: db}
}

// ListEntriesByDate returns a user's entries for one logical work day,
// ordered by check-in ascending.
func (r *PostgresRepository) ListEntriesByDate(ctx context.Context, userID, date string) ([]model.TimeEntry, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `SELECT id, user_id, date, check_in, check_out, working_hours, email_status, email_retry_count
              FROM time_entries
              WHERE user_id = $1 AND date = $2
              ORDER BY check_in ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// FindOpenEntry returns the user's most recently created entry without a
// checkout, or nil when the user is checked out. Creation order breaks ties
// when the store abnormally holds several open entries.
func (r *PostgresRepository) FindOpenEntry(ctx context.Context, userID string) (*model.TimeEntry, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `SELECT id, user_id, date, check_in, check_out, working_hours, email_status, email_retry_count
              FROM time_entries
              WHERE user_id = $1 AND check_out IS NULL
              ORDER BY id DESC
              LIMIT 1`

	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntry fetches a complete time_entries record by its ID.
func (r *PostgresRepository) GetEntry(ctx context.Context, id int64) (*model.TimeEntry, error) {
	query := `SELECT id, user_id, date, check_in, check_out, working_hours, email_status, email_retry_count
              FROM time_entries WHERE id = $1`

	return scanEntry(r.DB.QueryRowContext(ctx, query, id))
}

// CreateCheckIn creates a new open entry.
func (r *PostgresRepository) CreateCheckIn(ctx context.Context, userID, date string, checkIn time.Time) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	var id int64
	query := `INSERT INTO time_entries (user_id, date, check_in, check_out, working_hours, email_status, email_retry_count)
              VALUES ($1, $2, $3, NULL, NULL, $4, 0) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, userID, date, checkIn, model.StatusEmailPending).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateCheckOut closes an open entry with its derived hours.
func (r *PostgresRepository) UpdateCheckOut(ctx context.Context, id int64, checkOut time.Time, workingHours float64, userID string) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `UPDATE time_entries
              SET check_out = $1,
                  working_hours = $2,
                  email_status = $3
              WHERE id = $4 AND user_id = $5`

	_, err := r.DB.ExecContext(ctx, query, checkOut, workingHours, model.StatusEmailPending, id, userID)

	return err
}

// UpdateEntry overwrites an entry's date and timestamp pair after a manual
// edit. The derived hours are whatever the service recomputed.
func (r *PostgresRepository) UpdateEntry(ctx context.Context, userID string, entry model.TimeEntry) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.user_id", userID))

	query := `UPDATE time_entries
              SET date = $1,
                  check_in = $2,
                  check_out = $3,
                  working_hours = $4
              WHERE id = $5 AND user_id = $6`

	_, err := r.DB.ExecContext(ctx, query, entry.Date, entry.CheckIn, entry.CheckOut, entry.WorkingHours, entry.ID, userID)

	return err
}

// DeleteEntry removes an entry, reporting whether a row was deleted.
func (r *PostgresRepository) DeleteEntry(ctx context.Context, userID string, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM time_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdateEmailStatus updates the status and retry count for the checkout-summary email job.
func (r *PostgresRepository) UpdateEmailStatus(ctx context.Context, id int64, status model.EmailStatus, retryCount int) error {
	query := `UPDATE time_entries SET email_status = $1, email_retry_count = $2 WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*model.TimeEntry, error) {
	var (
		e        model.TimeEntry
		checkOut sql.NullTime
		hours    sql.NullFloat64
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.CheckIn, &checkOut, &hours, &e.EmailStatus, &e.EmailRetryCount)
	if err != nil {
		return nil, err
	}
	if checkOut.Valid {
		t := checkOut.Time
		e.CheckOut = &t
	}
	if hours.Valid {
		h := hours.Float64
		e.WorkingHours = &h
	}
	return &e, nil
}
