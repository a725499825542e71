package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	UserTypeCoach  = "coach"
	UserTypeMember = "member"
)

type User struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	UserType  string `json:"userType" gorm:"size:8;index"` // coach | member
	AvatarURL string `json:"avatarURL"`
	Bio       string `json:"bio"`
	Timezone  string `json:"timezone" gorm:"size:64"`

	Languages datatypes.JSON `json:"languages"`
	Skills    datatypes.JSON `json:"skills"`
}

// FullName is the display name used in the denormalized People columns.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
