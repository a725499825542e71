package services

import (
	"errors"

	"github.com/chaitanyaB4u/ferries/models"

	"gorm.io/gorm"
)

// EnrollmentService handles the coach-initiated ("managed") enrollment: the
// coach enrolls a member into a program and the invite mail is staged in
// the same transaction.
type EnrollmentService struct {
	db    *gorm.DB
	mails *MailService
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db, mails: NewMailService(db)}
}

type ManagedEnrollmentRequest struct {
	ProgramID uint
	MemberID  uint
	CoachID   uint
	Subject   string
	Message   string
}

func (s *EnrollmentService) ManagedEnrollment(req ManagedEnrollmentRequest) (*models.Enrollment, error) {
	var program models.Program
	if err := s.db.First(&program, req.ProgramID).Error; err != nil {
		return nil, notFound("program")
	}
	if program.CoachID != req.CoachID {
		return nil, validation("only the program coach can enroll members")
	}

	var coach, member models.User
	if err := s.db.First(&coach, req.CoachID).Error; err != nil {
		return nil, notFound("coach")
	}
	if err := s.db.First(&member, req.MemberID).Error; err != nil {
		return nil, notFound("member")
	}

	var enrollment *models.Enrollment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, err = findOrCreateEnrollment(tx, program.ID, member.ID, false)
		if err != nil {
			return err
		}
		return s.mails.EnqueueEnrollmentMail(tx, enrollment, &member, &coach, req.Subject, req.Message)
	})
	if err != nil {
		return nil, persistence(err)
	}
	return enrollment, nil
}

// ListByProgram returns the program's enrollments with their members.
func (s *EnrollmentService) ListByProgram(programID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := s.db.Preload("Member").Where("program_id = ?", programID).Find(&enrollments).Error; err != nil {
		return nil, persistence(err)
	}
	return enrollments, nil
}

// findOrCreateEnrollment is shared by the session and conference paths.
// It runs in the caller's transaction.
func findOrCreateEnrollment(tx *gorm.DB, programID, memberID uint, isSelf bool) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := tx.Where("program_id = ? AND member_id = ?", programID, memberID).First(&enrollment).Error
	if err == nil {
		return &enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment = models.Enrollment{ProgramID: programID, MemberID: memberID, IsNew: true, IsSelf: isSelf}
	if err := tx.Create(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}
