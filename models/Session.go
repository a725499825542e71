package models

import (
	"time"
)

// Session is a 1:1 coaching event. When ConferenceID is set the session is a
// fanned-out member copy of a Conference and follows the conference's state.
type Session struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:256"`
	Description string `json:"description" gorm:"type:text"`

	ProgramID    uint `json:"programID" gorm:"not null;index"`
	EnrollmentID uint `json:"enrollmentID" gorm:"not null;index"`

	// Set iff this session was materialized from a conference
	ConferenceID *uint `json:"conferenceID" gorm:"index"`

	// Denormalized "Coach & Member" display string
	People string `json:"people" gorm:"size:256"`

	Schedule  `gorm:"embedded"`
	Lifecycle `gorm:"embedded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Members []EventMember `json:"members" gorm:"foreignKey:SessionID"`
}

// Status derives the reported state from the lifecycle fields.
func (s *Session) Status(now time.Time) EventStatus {
	return s.Lifecycle.StatusAt(s.EffectiveStart(), now)
}

// CanDelete guards membership removal: a session that already started or was
// cancelled must stay on record.
func (s *Session) CanDelete() bool {
	return s.ActualStart == nil && s.CancelledAt == nil
}
