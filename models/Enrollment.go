package models

import "gorm.io/gorm"

// Enrollment ties a member to a program. The coach gets a self enrollment
// (IsSelf) to host their own conference session. IsNew is cleared when the
// member receives their first conference session.
type Enrollment struct {
	gorm.Model
	ProgramID uint `json:"programID" gorm:"not null;uniqueIndex:idx_program_member"`
	MemberID  uint `json:"memberID" gorm:"not null;uniqueIndex:idx_program_member"`
	IsNew     bool `json:"isNew" gorm:"default:true"`
	IsSelf    bool `json:"isSelf" gorm:"default:false"`

	Program Program `json:"program" gorm:"foreignKey:ProgramID"`
	Member  User    `json:"member" gorm:"foreignKey:MemberID"`
}
