package models

import (
	"time"

	"gorm.io/gorm"
)

// Note is free text attached to a session by one of its members.
type Note struct {
	gorm.Model
	SessionID   uint       `json:"sessionID" gorm:"not null;index"`
	CreatedByID uint       `json:"createdByID" gorm:"not null;index"`
	Description string     `json:"description" gorm:"type:text"`
	RemindAt    *time.Time `json:"remindAt"`
	IsPrivate   bool       `json:"isPrivate" gorm:"default:false"`
}

// Observation is free text the coach records against an enrollment.
type Observation struct {
	gorm.Model
	EnrollmentID uint   `json:"enrollmentID" gorm:"not null;index"`
	Description  string `json:"description" gorm:"type:text"`
}

// Constraint is a limiting factor recorded against an enrollment.
type Constraint struct {
	gorm.Model
	EnrollmentID uint   `json:"enrollmentID" gorm:"not null;index"`
	Description  string `json:"description" gorm:"type:text"`
}
