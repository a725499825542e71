package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionStagesInvite(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	sessions := NewSessionService(db)
	session, err := sessions.CreateSession(NewSessionRequest{
		ProgramID: program.ID,
		MemberID:  member.ID,
		Name:      "Kick-off",
		Duration:  60,
		StartTime: futureStart(),
	})
	require.NoError(t, err)
	require.NotZero(t, session.ID)
	assert.Equal(t, models.StatusPlanned, session.Status(time.Now()))

	var enrollment models.Enrollment
	require.NoError(t, db.Where("program_id = ? AND member_id = ?", program.ID, member.ID).First(&enrollment).Error)
	assert.Equal(t, enrollment.ID, session.EnrollmentID)

	var memberRows []models.EventMember
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&memberRows).Error)
	require.Len(t, memberRows, 2)

	roles := map[string]uint{}
	for _, row := range memberRows {
		roles[row.Role] = row.UserID
	}
	assert.Equal(t, coach.ID, roles[models.RoleCoach])
	assert.Equal(t, member.ID, roles[models.RoleMember])

	var mails []models.Correspondence
	require.NoError(t, db.Find(&mails).Error)
	require.Len(t, mails, 1)
	assert.Equal(t, models.MailStatusPending, mails[0].Status)
	assert.Equal(t, models.DirectionOut, mails[0].Direction)
	assert.Equal(t, models.MailTypeEvent, mails[0].MailType)

	var payload models.CalendarPayload
	require.NoError(t, json.Unmarshal([]byte(mails[0].Content), &payload))
	assert.Equal(t, models.SequenceInvite, payload.Sequence)
	assert.Equal(t, models.MethodRequest, payload.Method)
	assert.Equal(t, models.CalendarConfirmed, payload.Status)

	var recipients []models.MailRecipient
	require.NoError(t, db.Where("correspondence_id = ?", mails[0].ID).Find(&recipients).Error)
	require.Len(t, recipients, 2)
}

func TestCreateSessionReusesEnrollment(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	sessions := NewSessionService(db)
	for _, name := range []string{"Week 1", "Week 2"} {
		_, err := sessions.CreateSession(NewSessionRequest{
			ProgramID: program.ID,
			MemberID:  member.ID,
			Name:      name,
			Duration:  30,
			StartTime: futureStart(),
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("program_id = ? AND member_id = ?", program.ID, member.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateSessionUnknownProgram(t *testing.T) {
	db := newTestDB(t)

	sessions := NewSessionService(db)
	_, err := sessions.CreateSession(NewSessionRequest{ProgramID: 99, MemberID: 1, Name: "x", Duration: 30, StartTime: futureStart()})
	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, svcErr.Code)
}

func TestAlterStateWalksLifecycle(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	sessions := NewSessionService(db)
	session, err := sessions.CreateSession(NewSessionRequest{
		ProgramID: program.ID,
		MemberID:  member.ID,
		Name:      "Kick-off",
		Duration:  60,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	session, err = sessions.AlterState(ChangeStateRequest{ID: session.ID, TargetState: models.CommandMarkReady, ActorID: coach.ID})
	require.NoError(t, err)
	assert.True(t, session.IsReady)

	session, err = sessions.AlterState(ChangeStateRequest{ID: session.ID, TargetState: models.CommandStart, ActorID: coach.ID})
	require.NoError(t, err)
	require.NotNil(t, session.ActualStart)

	notes := "great progress"
	session, err = sessions.AlterState(ChangeStateRequest{ID: session.ID, TargetState: models.CommandDone, ClosingNotes: &notes, ActorID: coach.ID})
	require.NoError(t, err)
	require.NotNil(t, session.ActualEnd)
	require.NotNil(t, session.ClosingNotes)
	assert.Equal(t, notes, *session.ClosingNotes)

	// Terminal states refuse further commands
	_, err = sessions.AlterState(ChangeStateRequest{ID: session.ID, TargetState: models.CommandStart, ActorID: coach.ID})
	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStateChangeProhibited, svcErr.Code)

	var audits []models.AuditLog
	require.NoError(t, db.Where("resource_type = ? AND resource_id = ?", "session", session.ID).Find(&audits).Error)
	assert.Len(t, audits, 3)
}

func TestAlterStateCancelStagesCancellationMail(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	sessions := NewSessionService(db)
	session, err := sessions.CreateSession(NewSessionRequest{
		ProgramID: program.ID,
		MemberID:  member.ID,
		Name:      "Kick-off",
		Duration:  60,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	session, err = sessions.AlterState(ChangeStateRequest{ID: session.ID, TargetState: models.CommandCancel, ActorID: coach.ID})
	require.NoError(t, err)
	require.NotNil(t, session.CancelledAt)

	var mails []models.Correspondence
	require.NoError(t, db.Order("created_at asc").Find(&mails).Error)
	require.Len(t, mails, 2)

	var payload models.CalendarPayload
	require.NoError(t, json.Unmarshal([]byte(mails[1].Content), &payload))
	assert.Equal(t, models.SequenceCancel, payload.Sequence)
	assert.Equal(t, models.MethodCancel, payload.Method)
	assert.Equal(t, models.CalendarCancelled, payload.Status)

	// Same event id as the invite, so calendar clients supersede it
	var invite models.CalendarPayload
	require.NoError(t, json.Unmarshal([]byte(mails[0].Content), &invite))
	assert.Equal(t, invite.ID, payload.ID)
}

func TestAlterStateUnknownCommand(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	sessions := NewSessionService(db)
	session, err := sessions.CreateSession(NewSessionRequest{
		ProgramID: program.ID,
		MemberID:  member.ID,
		Name:      "Kick-off",
		Duration:  60,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	_, err = sessions.AlterState(ChangeStateRequest{ID: session.ID, TargetState: models.EventCommand("PAUSE"), ActorID: coach.ID})
	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, svcErr.Code)
}

func TestConferenceSessionFollowsConference(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	conferences := NewConferenceService(db)
	conference, err := conferences.CreateConference(NewConferenceRequest{
		ProgramID: program.ID,
		Name:      "Quarterly Review",
		Duration:  90,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	_, err = conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{member.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)

	var memberSession models.Session
	require.NoError(t, db.
		Joins("JOIN enrollments ON enrollments.id = sessions.enrollment_id").
		Where("sessions.conference_id = ? AND enrollments.member_id = ?", conference.ID, member.ID).
		First(&memberSession).Error)

	// Driving the member session drives the whole conference
	sessions := NewSessionService(db)
	updated, err := sessions.AlterState(ChangeStateRequest{ID: memberSession.ID, TargetState: models.CommandStart, ActorID: coach.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ActualStart)

	var reloaded models.Conference
	require.NoError(t, db.First(&reloaded, conference.ID).Error)
	require.NotNil(t, reloaded.ActualStart)
}
