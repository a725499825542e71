package models

import (
	"time"

	"gorm.io/gorm"
)

// Objective is a coaching goal planned for an enrollment window.
type Objective struct {
	gorm.Model
	EnrollmentID uint   `json:"enrollmentID" gorm:"not null;index"`
	Description  string `json:"description" gorm:"type:text"`

	Schedule `gorm:"embedded"`

	ActualStart *time.Time `json:"actualStart"`
	ActualEnd   *time.Time `json:"actualEnd"`
}

// Task is an activity assigned to an actor of an enrollment.
type Task struct {
	gorm.Model
	EnrollmentID uint   `json:"enrollmentID" gorm:"not null;index"`
	ActorID      uint   `json:"actorID" gorm:"not null;index"`
	Name         string `json:"name" gorm:"size:256"`
	Description  string `json:"description" gorm:"type:text"`
	Min          int    `json:"min"`
	Max          int    `json:"max"`
	Locked       bool   `json:"locked" gorm:"default:false"`

	Schedule `gorm:"embedded"`

	ActualStart *time.Time `json:"actualStart"`
	ActualEnd   *time.Time `json:"actualEnd"`
	CancelledAt *time.Time `json:"cancelledAt"`
	RespondedAt *time.Time `json:"respondedAt"`
}
