package models

import "time"

// Feed is an outbox row for the in-app channel: a pending-response indicator
// addressed to the party who has not replied yet. Unlike mail rows, a feed
// is re-openable — new unread activity in the thread inserts a fresh row,
// and a reply clears the whole backlog for that enrollment.
type Feed struct {
	ID           string `json:"id" gorm:"type:char(36);primaryKey"`
	ToUserID     uint   `json:"toUserID" gorm:"not null;index"`
	DiscussionID string `json:"discussionID" gorm:"type:char(36);not null;index"`
	EnrollmentID uint   `json:"enrollmentID" gorm:"not null;index"`
	IsPending    bool   `json:"isPending" gorm:"index;default:true"`

	// Denormalized for feed rendering without joins
	ProgramID   uint   `json:"programID"`
	ProgramName string `json:"programName" gorm:"size:256"`
	CoachID     uint   `json:"coachID"`
	CoachName   string `json:"coachName" gorm:"size:256"`
	MemberID    uint   `json:"memberID"`
	MemberName  string `json:"memberName" gorm:"size:256"`

	CreatedAt time.Time `json:"createdAt"`
}
