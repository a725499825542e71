package services

import (
	"errors"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"gorm.io/gorm"
)

// SessionService owns the lifecycle of standalone 1:1 sessions. Sessions
// that belong to a conference delegate state changes to the conference,
// which is the state authority for its fan-out.
type SessionService struct {
	db    *gorm.DB
	mails *MailService
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db, mails: NewMailService(db)}
}

type NewSessionRequest struct {
	ProgramID   uint
	MemberID    uint
	Name        string
	Description string
	Duration    int // minutes
	StartTime   time.Time
}

type ChangeStateRequest struct {
	ID           uint
	TargetState  models.EventCommand
	ClosingNotes *string
	ActorID      uint
}

// CreateSession books a 1:1 session and stages its invite mail (sequence 1)
// in the same transaction.
func (s *SessionService) CreateSession(req NewSessionRequest) (*models.Session, error) {
	var program models.Program
	if err := s.db.First(&program, req.ProgramID).Error; err != nil {
		return nil, notFound("program")
	}

	var coach, member models.User
	if err := s.db.First(&coach, program.CoachID).Error; err != nil {
		return nil, notFound("coach")
	}
	if err := s.db.First(&member, req.MemberID).Error; err != nil {
		return nil, notFound("member")
	}

	start := req.StartTime.UTC()
	session := models.Session{
		Name:        req.Name,
		Description: req.Description,
		ProgramID:   program.ID,
		People:      coach.FullName() + " & " + member.FullName(),
		Schedule: models.Schedule{
			Duration:      req.Duration,
			OriginalStart: start,
			OriginalEnd:   start.Add(time.Duration(req.Duration) * time.Minute),
		},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		enrollment, err := findOrCreateEnrollment(tx, program.ID, member.ID, false)
		if err != nil {
			return err
		}
		session.EnrollmentID = enrollment.ID

		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		pair := []models.EventMember{
			{SessionID: session.ID, UserID: coach.ID, Role: models.RoleCoach},
			{SessionID: session.ID, UserID: member.ID, Role: models.RoleMember},
		}
		if err := tx.Create(&pair).Error; err != nil {
			return err
		}

		return s.mails.EnqueueEventMail(tx, &session, &member, &coach, models.MethodRequest)
	})
	if err != nil {
		return nil, persistence(err)
	}
	return &session, nil
}

// AlterState validates and applies one lifecycle transition on a session.
// Cancelling a standalone session also stages the cancellation mail
// (sequence 99) for its member and coach, atomically with the transition.
func (s *SessionService) AlterState(req ChangeStateRequest) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, req.ID).Error; err != nil {
		return nil, notFound("session")
	}

	if session.ConferenceID != nil {
		conferences := NewConferenceService(s.db)
		if _, err := conferences.AlterState(ChangeStateRequest{
			ID:           *session.ConferenceID,
			TargetState:  req.TargetState,
			ClosingNotes: req.ClosingNotes,
			ActorID:      req.ActorID,
		}); err != nil {
			return nil, err
		}
		if err := s.db.First(&session, req.ID).Error; err != nil {
			return nil, persistence(err)
		}
		return &session, nil
	}

	next, err := session.Lifecycle.Apply(req.TargetState, req.ClosingNotes, time.Now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrUnknownCommand) {
			return nil, validation("unknown target state")
		}
		return nil, stateChangeProhibited(err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).Where("id = ?", session.ID).Updates(next.Columns()).Error; err != nil {
			return err
		}

		if req.TargetState == models.CommandCancel {
			member, coach, err := s.sessionParties(tx, session.ID)
			if err != nil {
				return err
			}
			if err := s.mails.EnqueueEventMail(tx, &session, member, coach, models.MethodCancel); err != nil {
				return err
			}
		}

		auditTransition(tx, req.ActorID, "event."+string(req.TargetState), "session", session.ID, session.Lifecycle, next)
		return nil
	})
	if err != nil {
		return nil, persistence(err)
	}

	session.Lifecycle = next
	return &session, nil
}

// GetSession loads one session with its members.
func (s *SessionService) GetSession(id uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.Preload("Members.User").First(&session, id).Error; err != nil {
		return nil, notFound("session")
	}
	return &session, nil
}

func (s *SessionService) sessionParties(tx *gorm.DB, sessionID uint) (member, coach *models.User, err error) {
	var rows []models.EventMember
	if err := tx.Preload("User").Where("session_id = ?", sessionID).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	for i := range rows {
		switch rows[i].Role {
		case models.RoleCoach:
			coach = &rows[i].User
		case models.RoleMember:
			member = &rows[i].User
		}
	}
	if coach == nil || member == nil {
		return nil, nil, notFound("session members")
	}
	return member, coach, nil
}
