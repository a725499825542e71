package services

import (
	"testing"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConferenceCreatesCoachSession(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	program := seedProgram(t, db, coach)

	conferences := NewConferenceService(db)
	conference, err := conferences.CreateConference(NewConferenceRequest{
		ProgramID: program.ID,
		Name:      "Quarterly Review",
		Duration:  90,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	sessions, err := conferences.MemberSessions(conference.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].ConferenceID)
	assert.Equal(t, conference.ID, *sessions[0].ConferenceID)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("program_id = ? AND member_id = ?", program.ID, coach.ID).First(&enrollment).Error)
	assert.True(t, enrollment.IsSelf)

	// The coach session carries a single coach member row and no invite
	var memberRows []models.EventMember
	require.NoError(t, db.Where("session_id = ?", sessions[0].ID).Find(&memberRows).Error)
	require.Len(t, memberRows, 1)
	assert.Equal(t, models.RoleCoach, memberRows[0].Role)

	var mailCount int64
	require.NoError(t, db.Model(&models.Correspondence{}).Count(&mailCount).Error)
	assert.Zero(t, mailCount)
}

func TestAddMembersIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	anu := seedUser(t, db, "Anu", "anu@krscode.com", models.UserTypeMember)
	ravi := seedUser(t, db, "Ravi", "ravi@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	conferences := NewConferenceService(db)
	conference, err := conferences.CreateConference(NewConferenceRequest{
		ProgramID: program.ID,
		Name:      "Quarterly Review",
		Duration:  90,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	added, err := conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{anu.ID, ravi.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{anu.ID, ravi.ID}, added)

	// Adding again must not duplicate sessions or mails
	_, err = conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{anu.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)

	sessions, err := conferences.MemberSessions(conference.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 3) // coach + anu + ravi

	var mailCount int64
	require.NoError(t, db.Model(&models.Correspondence{}).Count(&mailCount).Error)
	assert.EqualValues(t, 2, mailCount)

	// Joining a conference clears the enrollment's is_new flag
	var enrollment models.Enrollment
	require.NoError(t, db.Where("program_id = ? AND member_id = ?", program.ID, anu.ID).First(&enrollment).Error)
	assert.False(t, enrollment.IsNew)
}

func TestAlterStateFansOutOneTimestamp(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	anu := seedUser(t, db, "Anu", "anu@krscode.com", models.UserTypeMember)
	ravi := seedUser(t, db, "Ravi", "ravi@krscode.com", models.UserTypeMember)
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
		MemberIDs:    []uint{anu.ID, ravi.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)

	cancelled, err := conferences.AlterState(ChangeStateRequest{
		ID:          conference.ID,
		TargetState: models.CommandCancel,
		ActorID:     coach.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelledAt)

	sessions, err := conferences.MemberSessions(conference.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for _, session := range sessions {
		require.NotNil(t, session.CancelledAt)
		assert.True(t, session.CancelledAt.Equal(*cancelled.CancelledAt),
			"every fanned-out session must carry the conference's timestamp")
		assert.Equal(t, models.StatusCancelled, session.Status(time.Now()))
	}
}

func TestAddMembersRefusedOnceClosed(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	anu := seedUser(t, db, "Anu", "anu@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	conferences := NewConferenceService(db)
	conference, err := conferences.CreateConference(NewConferenceRequest{
		ProgramID: program.ID,
		Name:      "Quarterly Review",
		Duration:  90,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	_, err = conferences.AlterState(ChangeStateRequest{
		ID:          conference.ID,
		TargetState: models.CommandCancel,
		ActorID:     coach.ID,
	})
	require.NoError(t, err)

	_, err = conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{anu.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStateChangeProhibited, svcErr.Code)
}

func TestRemoveMembers(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	anu := seedUser(t, db, "Anu", "anu@krscode.com", models.UserTypeMember)
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
		MemberIDs:    []uint{anu.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)

	// Removing someone who never joined is a no-op, not an error
	removed, err := conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{9999},
		Intention:    IntentionRemove,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{anu.ID},
		Intention:    IntentionRemove,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{anu.ID}, removed)

	sessions, err := conferences.MemberSessions(conference.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1) // only the coach session survives
}

func TestRemoveMemberGuardedAfterStart(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	anu := seedUser(t, db, "Anu", "anu@krscode.com", models.UserTypeMember)
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
		MemberIDs:    []uint{anu.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)

	_, err = conferences.AlterState(ChangeStateRequest{
		ID:          conference.ID,
		TargetState: models.CommandStart,
		ActorID:     coach.ID,
	})
	require.NoError(t, err)

	_, err = conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{anu.ID},
		Intention:    IntentionRemove,
		ActorID:      coach.ID,
	})
	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnremovableSession, svcErr.Code)
}

func TestLateJoinerInheritsConferenceState(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	anu := seedUser(t, db, "Anu", "anu@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	conferences := NewConferenceService(db)
	conference, err := conferences.CreateConference(NewConferenceRequest{
		ProgramID: program.ID,
		Name:      "Quarterly Review",
		Duration:  90,
		StartTime: futureStart(),
	})
	require.NoError(t, err)

	_, err = conferences.AlterState(ChangeStateRequest{
		ID:          conference.ID,
		TargetState: models.CommandStart,
		ActorID:     coach.ID,
	})
	require.NoError(t, err)

	_, err = conferences.ManageMembers(MemberRequest{
		ConferenceID: conference.ID,
		MemberIDs:    []uint{anu.ID},
		Intention:    IntentionAdd,
		ActorID:      coach.ID,
	})
	require.NoError(t, err)

	var session models.Session
	require.NoError(t, db.
		Joins("JOIN enrollments ON enrollments.id = sessions.enrollment_id").
		Where("sessions.conference_id = ? AND enrollments.member_id = ?", conference.ID, anu.ID).
		First(&session).Error)
	require.NotNil(t, session.ActualStart)
	assert.Equal(t, models.StatusProgress, session.Status(time.Now()))
}
