package models

import (
	"time"
)

// Stats are the per-business-day counters shown on the admin dashboard.
// AverageWaitMinutes is a running mean, rounded to the nearest minute on
// every completion.
type Stats struct {
	TotalRegisteredToday int `json:"total_registered_today"`
	CompletedToday       int `json:"completed_today"`
	AverageWaitMinutes   int `json:"average_wait_minutes"`
}

// QueueState is the aggregate the waitlist service owns. ActiveQueue keeps
// insertion order; a guest's 1-based index in it is the position shown to
// customers. BusinessDay is the calendar date (in the configured timezone)
// the state belongs to, used for rollover detection on load.
type QueueState struct {
	ActiveQueue  []Guest `json:"active_queue"`
	Stats        Stats   `json:"stats"`
	NextSequence int     `json:"next_sequence"`
	Accepting    bool    `json:"accepting_new_registrations"`
	BusinessDay  string  `json:"business_day"`
}

// NewQueueState returns the zero-valued state for the given business day.
func NewQueueState(day string) *QueueState {
	return &QueueState{
		ActiveQueue:  []Guest{},
		NextSequence: 1,
		Accepting:    true,
		BusinessDay:  day,
	}
}

// Clone deep-copies the state so snapshots handed to handlers can never
// alias the live queue slice.
func (s *QueueState) Clone() *QueueState {
	cp := *s
	cp.ActiveQueue = make([]Guest, len(s.ActiveQueue))
	copy(cp.ActiveQueue, s.ActiveQueue)
	return &cp
}

// IndexOf returns the 0-based index of displayID in the active queue, or -1.
func (s *QueueState) IndexOf(displayID string) int {
	for i := range s.ActiveQueue {
		if s.ActiveQueue[i].DisplayID == displayID {
			return i
		}
	}
	return -1
}

// BoardSummary is the public waiting-board projection: counts only, no
// party details and no cancel tokens.
type BoardSummary struct {
	Waiting            int       `json:"waiting"`
	Calling            int       `json:"calling"`
	Accepting          bool      `json:"accepting"`
	AverageWaitMinutes int       `json:"average_wait_minutes"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Board projects the state into the public summary.
func (s *QueueState) Board(now time.Time) BoardSummary {
	b := BoardSummary{
		Accepting:          s.Accepting,
		AverageWaitMinutes: s.Stats.AverageWaitMinutes,
		UpdatedAt:          now,
	}
	for i := range s.ActiveQueue {
		switch s.ActiveQueue[i].Status {
		case StatusCalling:
			b.Calling++
		case StatusWaiting:
			b.Waiting++
		}
	}
	return b
}
