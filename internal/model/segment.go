package model

import "time"

// SessionSegment is one contiguous interval of active engagement with a
// session. A segment is open while EndedAt is null; the database enforces at
// most one open segment per session (partial unique index), which is the
// concurrency backstop for racing start/stop/heartbeat calls.
type SessionSegment struct {
	ID         int64      `json:"id"`
	SessionID  int64      `json:"session_id"`
	UserID     int64      `json:"user_id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	LastPingAt time.Time  `json:"last_ping_at"`
}

// Open reports whether the segment is still accumulating time.
func (s *SessionSegment) Open() bool {
	return s.EndedAt == nil
}
