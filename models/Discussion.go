package models

import "time"

// Discussion is one message in the coach/member thread of an enrollment.
type Discussion struct {
	ID           string `json:"id" gorm:"type:char(36);primaryKey"`
	EnrollmentID uint   `json:"enrollmentID" gorm:"not null;index"`
	CreatedByID  uint   `json:"createdByID" gorm:"not null;index"`
	Description  string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`

	CreatedBy User `json:"createdBy" gorm:"foreignKey:CreatedByID"`
}
