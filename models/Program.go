package models

import "gorm.io/gorm"

type Program struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null;size:256"`
	Description string `json:"description" gorm:"type:text"`
	CoachID     uint   `json:"coachID" gorm:"not null;index"`
	IsActive    bool   `json:"isActive" gorm:"default:true"`

	Coach User `json:"coach" gorm:"foreignKey:CoachID"`
}
