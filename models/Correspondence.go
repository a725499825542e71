package models

import (
	"time"
)

// Correspondence statuses and enums, stored verbatim lower-case.
const (
	MailStatusPending = "pending"
	MailStatusMarked  = "marked"
	MailStatusSent    = "sent"
	MailStatusFailed  = "failed"

	DirectionIn  = "in"
	DirectionOut = "out"

	MailTypeNormal = "normal"
	MailTypeEvent  = "event"

	RecipientTo = "to"
	RecipientCc = "cc"
)

// Correspondence is an outbox row for the mail channel. It is inserted in
// the same transaction as the business write that caused it; a dispatcher
// claims it later (pending -> marked) and records the terminal outcome
// (sent | failed).
type Correspondence struct {
	ID           string `json:"id" gorm:"type:char(36);primaryKey"`
	FromUserID   uint   `json:"fromUserID" gorm:"index"`
	ProgramID    uint   `json:"programID" gorm:"index"`
	EnrollmentID uint   `json:"enrollmentID" gorm:"index"`
	FromEmail    string `json:"fromEmail" gorm:"size:256"`
	Subject      string `json:"subject" gorm:"size:512"`
	Content      string `json:"content" gorm:"type:text"`

	Direction string `json:"direction" gorm:"size:4;index"` // in | out
	Status    string `json:"status" gorm:"size:8;index"`    // pending | marked | sent | failed

	SentAt      *time.Time `json:"sentAt"`
	ErrorReason *string    `json:"errorReason" gorm:"size:512"`
	ToSendOn    time.Time  `json:"toSendOn" gorm:"index"`
	MailType    string     `json:"mailType" gorm:"size:8"` // normal | event

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Recipients []MailRecipient `json:"recipients" gorm:"foreignKey:CorrespondenceID"`
}

// MailRecipient is one to/cc line of a correspondence.
type MailRecipient struct {
	ID               string `json:"id" gorm:"type:char(36);primaryKey"`
	CorrespondenceID string `json:"correspondenceID" gorm:"type:char(36);not null;index"`
	ToUserID         *uint  `json:"toUserID"`
	ToEmail          string `json:"toEmail" gorm:"size:256;not null"`
	Kind             string `json:"kind" gorm:"size:2;not null"` // to | cc
}

// Calendar payload enums for event mail.
const (
	CalendarConfirmed = "CONFIRMED"
	CalendarCancelled = "CANCELLED"

	MethodRequest = "REQUEST"
	MethodCancel  = "CANCEL"

	// An invite goes out with sequence 1; the cancellation supersedes it
	// with sequence 99 for any calendar client that ingested the invite.
	SequenceInvite = 1
	SequenceCancel = 99
)

// CalendarPayload is the structured body of an event mail, serialized into
// Correspondence.Content. The shape mirrors an iCalendar VEVENT.
type CalendarPayload struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"sequence"`
	Organizer   string    `json:"organizer"`
	Attendee    string    `json:"attendee"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Status      string    `json:"status"` // CONFIRMED | CANCELLED
	Method      string    `json:"method"` // REQUEST | CANCEL
}
