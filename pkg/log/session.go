package log

import (
	"time"

	"github.com/google/uuid"
)

// Session stamps events with a boot session id and a timestamp before
// passing them on. One Session is created per process start, so events from
// different boots can be told apart in a long-lived log file.
type Session struct {
	id     string
	logger Logger
	now    func() time.Time
}

// NewSession creates a Session with a fresh random id that forwards to l.
// A nil l discards events.
func NewSession(l Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		logger: OrNoop(l),
		now:    time.Now,
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Log fills in SessionID and Timestamp when unset and forwards the event.
func (s *Session) Log(event Event) {
	if event.SessionID == "" {
		event.SessionID = s.id
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.logger.Log(event)
}

// Compile-time interface satisfaction check.
var _ Logger = (*Session)(nil)
