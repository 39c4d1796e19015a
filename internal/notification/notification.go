// Package notification implements the operator facing notifications.
package notification

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Notification holds a single notification.
type Notification struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

// Warn logs the given warning.
func (LogNotifier) Warn(title, message string) {
	log.WithFields(log.Fields{
		"title":   title,
		"message": message,
	}).Warning("notification: operator warning")
}

// Recorder keeps the most recent notifications in memory and optionally
// forwards them to a next notifier.
type Recorder struct {
	mu    sync.RWMutex
	max   int
	items []Notification
	next  interface{ Warn(title, message string) }
}

// NewRecorder creates a Recorder keeping up to max notifications. next may
// be nil.
func NewRecorder(max int, next interface{ Warn(title, message string) }) *Recorder {
	return &Recorder{
		max:  max,
		next: next,
	}
}

// Warn records the given warning.
func (r *Recorder) Warn(title, message string) {
	r.mu.Lock()
	r.items = append(r.items, Notification{
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if r.max > 0 && len(r.items) > r.max {
		r.items = r.items[len(r.items)-r.max:]
	}
	r.mu.Unlock()

	if r.next != nil {
		r.next.Warn(title, message)
	}
}

// Notifications returns the recorded notifications, oldest first.
func (r *Recorder) Notifications() []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}
