package types

import "time"

// LogEntry represents a log entry to be stored in the database
type LogEntry struct {
	Method       string
	URL          string
	UserUUID     string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	Duration     time.Duration
	CreatedAt    time.Time
}
