package models

import (
	"errors"
	"time"
)

// EventStatus is the closed set of states a schedulable event can report.
// It is always derived from the lifecycle fields, never stored.
type EventStatus string

const (
	StatusPlanned   EventStatus = "PLANNED"
	StatusOverdue   EventStatus = "OVERDUE"
	StatusReady     EventStatus = "READY"
	StatusProgress  EventStatus = "PROGRESS"
	StatusDone      EventStatus = "DONE"
	StatusCancelled EventStatus = "CANCELLED"
)

// EventCommand is a named lifecycle transition.
type EventCommand string

const (
	CommandMarkReady EventCommand = "MARK_READY"
	CommandStart     EventCommand = "START"
	CommandDone      EventCommand = "DONE"
	CommandCancel    EventCommand = "CANCEL"
)

var (
	ErrStateChangeProhibited = errors.New("the event is already cancelled or done")
	ErrUnknownCommand        = errors.New("unknown event command")
)

// Lifecycle holds the transition side-effect fields shared by Session and
// Conference. The timestamps are written only by Apply; status is derived.
type Lifecycle struct {
	IsReady      bool       `json:"isReady"`
	ActualStart  *time.Time `json:"actualStart"`
	ActualEnd    *time.Time `json:"actualEnd"`
	CancelledAt  *time.Time `json:"cancelledAt"`
	ClosingNotes *string    `json:"closingNotes" gorm:"type:text"`
}

// Closed reports whether the event reached a terminal state.
// Once closed, no further transition is permitted.
func (l Lifecycle) Closed() bool {
	return l.CancelledAt != nil || l.ActualEnd != nil
}

// Apply returns the lifecycle after running cmd at the given instant.
// A closed lifecycle rejects every command with ErrStateChangeProhibited
// and is returned unmodified.
func (l Lifecycle) Apply(cmd EventCommand, notes *string, now time.Time) (Lifecycle, error) {
	if l.Closed() {
		return l, ErrStateChangeProhibited
	}

	next := l
	switch cmd {
	case CommandMarkReady:
		next.IsReady = true
	case CommandStart:
		next.ActualStart = &now
	case CommandDone:
		next.ActualEnd = &now
		next.ClosingNotes = notes
	case CommandCancel:
		next.CancelledAt = &now
		next.ClosingNotes = notes
	default:
		return l, ErrUnknownCommand
	}

	return next, nil
}

// StatusAt derives the reported status. effectiveStart is the revised start
// when one exists, otherwise the original start.
func (l Lifecycle) StatusAt(effectiveStart, now time.Time) EventStatus {
	if l.CancelledAt != nil {
		return StatusCancelled
	}
	if l.ActualEnd != nil {
		return StatusDone
	}
	if l.ActualStart != nil {
		return StatusProgress
	}
	if l.IsReady {
		return StatusReady
	}
	if effectiveStart.Before(now) {
		return StatusOverdue
	}
	return StatusPlanned
}

// Columns returns the lifecycle fields as a gorm update map. The conference
// fan-out applies this one map to the conference row and to every member
// session row so all of them carry the same timestamps.
func (l Lifecycle) Columns() map[string]interface{} {
	return map[string]interface{}{
		"is_ready":      l.IsReady,
		"actual_start":  l.ActualStart,
		"actual_end":    l.ActualEnd,
		"cancelled_at":  l.CancelledAt,
		"closing_notes": l.ClosingNotes,
	}
}

// Schedule holds the booked window shared by Session and Conference.
type Schedule struct {
	Duration      int        `json:"duration"` // in minutes
	OriginalStart time.Time  `json:"originalStart"`
	OriginalEnd   time.Time  `json:"originalEnd"`
	RevisedStart  *time.Time `json:"revisedStart"`
	RevisedEnd    *time.Time `json:"revisedEnd"`
	OfferedStart  *time.Time `json:"offeredStart"`
	OfferedEnd    *time.Time `json:"offeredEnd"`
}

// EffectiveStart is the revised start when a reschedule happened.
func (s Schedule) EffectiveStart() time.Time {
	if s.RevisedStart != nil {
		return *s.RevisedStart
	}
	return s.OriginalStart
}

// EffectiveEnd mirrors EffectiveStart for the end of the window.
func (s Schedule) EffectiveEnd() time.Time {
	if s.RevisedEnd != nil {
		return *s.RevisedEnd
	}
	return s.OriginalEnd
}
