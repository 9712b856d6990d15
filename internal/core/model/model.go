package model

import (
	"time"
)

// EmailStatus defines the state of the checkout-summary email processing.
type EmailStatus string

const (
	StatusEmailPending    EmailStatus = "PENDING"
	StatusEmailProcessing EmailStatus = "PROCESSING"
	StatusEmailCompleted  EmailStatus = "COMPLETED"
	StatusEmailFailed     EmailStatus = "FAILED"
)

// TimeEntry is one check-in/check-out pair. CheckOut is nil while the session
// is still open; WorkingHours is set only once the session is closed and is
// always derived from the timestamp pair, never taken from the caller.
type TimeEntry struct {
	ID              int64       `json:"id"`
	UserID          string      `json:"userId"`
	Date            string      `json:"date"` // logical work day, yyyy-mm-dd
	CheckIn         time.Time   `json:"checkIn"`
	CheckOut        *time.Time  `json:"checkOut,omitempty"`
	WorkingHours    *float64    `json:"workingHours,omitempty"`
	EmailStatus     EmailStatus `json:"emailStatus"`
	EmailRetryCount int         `json:"emailRetryCount"`
}

// Open reports whether the entry is a still-running session.
func (e *TimeEntry) Open() bool {
	return e.CheckOut == nil
}

// WorkSchedule is one planned work block for a date. A date may carry any
// number of blocks; PlannedHours is derived from the HH:MM pair on every write.
type WorkSchedule struct {
	ID           int64   `json:"id"`
	UserID       string  `json:"userId"`
	Date         string  `json:"date"`      // yyyy-mm-dd
	StartTime    string  `json:"startTime"` // HH:MM
	EndTime      string  `json:"endTime"`   // HH:MM
	PlannedHours float64 `json:"plannedHours"`
	Description  string  `json:"description,omitempty"`
}
