package models

import (
	"time"
)

// Conference is a multi-party event. It owns no enrollment itself; every
// member (the coach included) gets an own Session row sharing ConferenceID,
// and those rows are kept state-synchronized with this one.
type Conference struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:256"`
	Description string `json:"description" gorm:"type:text"`

	ProgramID uint `json:"programID" gorm:"not null;index"`

	People string `json:"people" gorm:"size:256"`

	Schedule  `gorm:"embedded"`
	Lifecycle `gorm:"embedded"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Status derives the reported state from the lifecycle fields.
func (c *Conference) Status(now time.Time) EventStatus {
	return c.Lifecycle.StatusAt(c.EffectiveStart(), now)
}
