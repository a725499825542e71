package models

import "time"

const (
	RoleCoach  = "coach"
	RoleMember = "member"
)

// EventMember associates a user with a session in a given role. A 1:1
// session carries one coach row and one member row; a conference coach
// session carries the coach row only.
type EventMember struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SessionID uint   `json:"sessionID" gorm:"not null;uniqueIndex:idx_session_user"`
	UserID    uint   `json:"userID" gorm:"not null;uniqueIndex:idx_session_user;index"`
	Role      string `json:"role" gorm:"size:8;not null"`

	CreatedAt time.Time `json:"createdAt"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}
