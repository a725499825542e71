package services

import (
	"errors"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"gorm.io/gorm"
)

// ConferenceService owns multi-party events: their lifecycle (fanned out to
// every member session) and their membership.
type ConferenceService struct {
	db    *gorm.DB
	mails *MailService
}

func NewConferenceService(db *gorm.DB) *ConferenceService {
	return &ConferenceService{db: db, mails: NewMailService(db)}
}

type NewConferenceRequest struct {
	ProgramID   uint
	Name        string
	Description string
	Duration    int // minutes
	StartTime   time.Time
}

type MemberIntention string

const (
	IntentionAdd    MemberIntention = "ADD"
	IntentionRemove MemberIntention = "REMOVE"
)

type MemberRequest struct {
	ConferenceID uint
	MemberIDs    []uint
	Intention    MemberIntention
	ActorID      uint
}

// CreateConference books a conference and materializes the coach's own
// session up front, through a self enrollment. Member sessions follow as
// members are added.
func (s *ConferenceService) CreateConference(req NewConferenceRequest) (*models.Conference, error) {
	var program models.Program
	if err := s.db.First(&program, req.ProgramID).Error; err != nil {
		return nil, notFound("program")
	}

	var coach models.User
	if err := s.db.First(&coach, program.CoachID).Error; err != nil {
		return nil, notFound("coach")
	}

	start := req.StartTime.UTC()
	conference := models.Conference{
		Name:        req.Name,
		Description: req.Description,
		ProgramID:   program.ID,
		People:      coach.FullName(),
		Schedule: models.Schedule{
			Duration:      req.Duration,
			OriginalStart: start,
			OriginalEnd:   start.Add(time.Duration(req.Duration) * time.Minute),
		},
	}
	if err := s.db.Create(&conference).Error; err != nil {
		return nil, persistence(err)
	}

	if _, err := s.findOrCreateMemberSession(&conference, &program, &coach, coach.ID); err != nil {
		return nil, err
	}
	return &conference, nil
}

// AlterState applies one transition to the conference row and, identically,
// to every session sharing its conferenceID. The guard is evaluated against
// the conference only; the fan-out runs as two bulk updates carrying the
// same column map, inside one transaction.
func (s *ConferenceService) AlterState(req ChangeStateRequest) (*models.Conference, error) {
	var conference models.Conference
	if err := s.db.First(&conference, req.ID).Error; err != nil {
		return nil, notFound("conference")
	}

	next, err := conference.Lifecycle.Apply(req.TargetState, req.ClosingNotes, time.Now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrUnknownCommand) {
			return nil, validation("unknown target state")
		}
		return nil, stateChangeProhibited(err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		columns := next.Columns()
		if err := tx.Model(&models.Conference{}).Where("id = ?", conference.ID).Updates(columns).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Session{}).Where("conference_id = ?", conference.ID).Updates(columns).Error; err != nil {
			return err
		}

		auditTransition(tx, req.ActorID, "event."+string(req.TargetState), "conference", conference.ID, conference.Lifecycle, next)
		return nil
	})
	if err != nil {
		return nil, persistence(err)
	}

	conference.Lifecycle = next
	return &conference, nil
}

// ManageMembers adds or removes conference members and returns the ids it
// actually processed.
func (s *ConferenceService) ManageMembers(req MemberRequest) ([]uint, error) {
	var conference models.Conference
	if err := s.db.First(&conference, req.ConferenceID).Error; err != nil {
		return nil, notFound("conference")
	}

	if req.Intention == IntentionRemove {
		return s.removeMembers(&conference, req.MemberIDs)
	}
	return s.addMembers(&conference, req.MemberIDs)
}

func (s *ConferenceService) addMembers(conference *models.Conference, memberIDs []uint) ([]uint, error) {
	if conference.Closed() {
		return nil, stateChangeProhibited(models.ErrStateChangeProhibited)
	}

	var program models.Program
	if err := s.db.First(&program, conference.ProgramID).Error; err != nil {
		return nil, notFound("program")
	}
	var coach models.User
	if err := s.db.First(&coach, program.CoachID).Error; err != nil {
		return nil, notFound("coach")
	}

	added := make([]uint, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		if _, err := s.findOrCreateMemberSession(conference, &program, &coach, memberID); err != nil {
			return added, err
		}
		added = append(added, memberID)
	}
	return added, nil
}

// findOrCreateMemberSession is idempotent on (conference, member): when the
// member already has a session for this conference it is returned unchanged.
// Otherwise one transaction creates the enrollment if absent, a session
// carrying the conference's current schedule and state, the member rows, and
// the invite mail (skipped for the coach's own session).
func (s *ConferenceService) findOrCreateMemberSession(conference *models.Conference, program *models.Program, coach *models.User, memberID uint) (*models.Session, error) {
	var existing models.Session
	err := s.db.
		Joins("JOIN enrollments ON enrollments.id = sessions.enrollment_id").
		Where("sessions.conference_id = ? AND enrollments.member_id = ?", conference.ID, memberID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence(err)
	}

	var member models.User
	if err := s.db.First(&member, memberID).Error; err != nil {
		return nil, notFound("member")
	}

	isCoachSession := member.ID == coach.ID
	people := coach.FullName()
	if !isCoachSession {
		people = coach.FullName() + " & " + member.FullName()
	}

	confID := conference.ID
	session := models.Session{
		Name:         conference.Name,
		Description:  conference.Description,
		ProgramID:    conference.ProgramID,
		ConferenceID: &confID,
		People:       people,
		Schedule:     conference.Schedule,
		// A member added mid-flight sees the same state as their peers
		Lifecycle: conference.Lifecycle,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		enrollment, err := findOrCreateEnrollment(tx, program.ID, member.ID, isCoachSession)
		if err != nil {
			return err
		}
		session.EnrollmentID = enrollment.ID

		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		rows := []models.EventMember{
			{SessionID: session.ID, UserID: coach.ID, Role: models.RoleCoach},
		}
		if !isCoachSession {
			rows = append(rows, models.EventMember{SessionID: session.ID, UserID: member.ID, Role: models.RoleMember})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).Update("is_new", false).Error; err != nil {
			return err
		}

		if !isCoachSession {
			return s.mails.EnqueueEventMail(tx, &session, &member, coach, models.MethodRequest)
		}
		return nil
	})
	if err != nil {
		return nil, persistence(err)
	}
	return &session, nil
}

func (s *ConferenceService) removeMembers(conference *models.Conference, memberIDs []uint) ([]uint, error) {
	removed := make([]uint, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		var session models.Session
		err := s.db.
			Joins("JOIN enrollments ON enrollments.id = sessions.enrollment_id").
			Where("sessions.conference_id = ? AND enrollments.member_id = ?", conference.ID, memberID).
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return removed, persistence(err)
		}

		if !session.CanDelete() {
			return removed, unremovableSession(session.ID)
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("session_id = ?", session.ID).Delete(&models.EventMember{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Session{}, session.ID).Error
		})
		if err != nil {
			return removed, persistence(err)
		}
		removed = append(removed, memberID)
	}
	return removed, nil
}

// MemberSessions lists every session fanned out from the conference.
func (s *ConferenceService) MemberSessions(conferenceID uint) ([]models.Session, error) {
	var sessions []models.Session
	if err := s.db.Where("conference_id = ?", conferenceID).Order("id asc").Find(&sessions).Error; err != nil {
		return nil, persistence(err)
	}
	return sessions, nil
}
