package messaging

import "time"

// CheckOutEvent is the JSON payload published to the summary queue when a
// session is closed.
type CheckOutEvent struct {
	EntryID      int64     `json:"entryId"`
	UserID       string    `json:"userId"`
	Date         string    `json:"date"`
	WorkingHours float64   `json:"workingHours"`
	CheckOutTime time.Time `json:"checkOutTime"`
}
