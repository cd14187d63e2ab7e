package logger

import (
	"sync"

	log_model "courier-booking/models/log"
	"courier-booking/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request logs from a buffered channel on a single consumer goroutine
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
		done:    make(chan struct{}),
	}
}

func (logger *AsyncLogger) ProcessLog() {
	defer close(logger.done)
	Info("Starting asynchronous logger...")

	for logEntry := range logger.channel {
		if logger.db == nil {
			continue
		}

		dbLog := log_model.Log{
			Method:       logEntry.Method,
			URL:          logEntry.URL,
			UserUUID:     logEntry.UserUUID,
			RequestBody:  logEntry.RequestBody,
			ResponseBody: logEntry.ResponseBody,
			StatusCode:   logEntry.StatusCode,
			DurationMs:   logEntry.Duration.Milliseconds(),
			CreatedAt:    logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert log entry for "+dbLog.Method+" "+dbLog.URL, err)
		} else {
			Debug("Inserted log entry: " + dbLog.Method + " " + dbLog.URL)
		}
	}
}

// Log pushes a log entry into the channel. Entries are dropped when the buffer is full.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	if logger == nil {
		return
	}
	logger.mu.RLock()
	defer logger.mu.RUnlock()
	if logger.closed {
		return
	}
	select {
	case logger.channel <- entry:
	default:
		Warning("Request log buffer full, dropping entry for " + entry.Method + " " + entry.URL)
	}
}

// Close stops accepting entries and waits for the consumer to drain the buffer.
// It must only be called after ProcessLog has been started.
func (logger *AsyncLogger) Close() {
	logger.mu.Lock()
	if logger.closed {
		logger.mu.Unlock()
		return
	}
	logger.closed = true
	close(logger.channel)
	logger.mu.Unlock()
	<-logger.done
}
