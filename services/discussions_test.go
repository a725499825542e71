package services

import (
	"context"
	"testing"

	"github.com/chaitanyaB4u/ferries/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDiscussionFeedsOtherParty(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	enrollment := models.Enrollment{ProgramID: program.ID, MemberID: member.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	discussions := NewDiscussionService(db, nil)
	discussion, err := discussions.CreateDiscussion(NewDiscussionRequest{
		EnrollmentID: enrollment.ID,
		CreatedByID:  member.ID,
		ToUserID:     coach.ID,
		Description:  "How do I prepare for the next session?",
		ProgramID:    program.ID,
		ProgramName:  program.Name,
		CoachID:      coach.ID,
		CoachName:    coach.FullName(),
		MemberID:     member.ID,
		MemberName:   member.FullName(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, discussion.ID)

	count, err := discussions.CountPending(context.Background(), coach.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = discussions.CountPending(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReplyClearsAuthorsBacklog(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	enrollment := models.Enrollment{ProgramID: program.ID, MemberID: member.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	other := models.Enrollment{ProgramID: program.ID, MemberID: coach.ID, IsSelf: true}
	require.NoError(t, db.Create(&other).Error)

	discussions := NewDiscussionService(db, nil)

	post := func(enrollmentID, from, to uint, text string) {
		t.Helper()
		_, err := discussions.CreateDiscussion(NewDiscussionRequest{
			EnrollmentID: enrollmentID,
			CreatedByID:  from,
			ToUserID:     to,
			Description:  text,
		})
		require.NoError(t, err)
	}

	// Two member questions pile up on the coach
	post(enrollment.ID, member.ID, coach.ID, "question one")
	post(enrollment.ID, member.ID, coach.ID, "question two")

	// And one on another thread, which must stay pending
	post(other.ID, member.ID, coach.ID, "unrelated question")

	count, err := discussions.CountPending(context.Background(), coach.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// The coach's reply clears their backlog for this enrollment only
	post(enrollment.ID, coach.ID, member.ID, "answers to both")

	count, err = discussions.CountPending(context.Background(), coach.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = discussions.CountPending(context.Background(), member.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestListPending(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	enrollment := models.Enrollment{ProgramID: program.ID, MemberID: member.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	discussions := NewDiscussionService(db, nil)
	_, err := discussions.CreateDiscussion(NewDiscussionRequest{
		EnrollmentID: enrollment.ID,
		CreatedByID:  member.ID,
		ToUserID:     coach.ID,
		Description:  "a question",
		ProgramName:  program.Name,
	})
	require.NoError(t, err)

	feeds, err := discussions.ListPending(coach.ID, 10)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "a question", feeds[0].Description)
	assert.Equal(t, member.ID, feeds[0].Author.ID)
	assert.Equal(t, program.Name, feeds[0].Feed.ProgramName)

	feeds, err = discussions.ListPending(member.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, feeds)
}

func TestCreateDiscussionRequiresText(t *testing.T) {
	db := newTestDB(t)

	discussions := NewDiscussionService(db, nil)
	_, err := discussions.CreateDiscussion(NewDiscussionRequest{EnrollmentID: 1, CreatedByID: 1, ToUserID: 2})
	svcErr, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, svcErr.Code)
}

func TestEnrollmentThreadOrder(t *testing.T) {
	db := newTestDB(t)
	coach := seedUser(t, db, "Gopal", "gopal@krscode.com", models.UserTypeCoach)
	member := seedUser(t, db, "Harini", "harini@krscode.com", models.UserTypeMember)
	program := seedProgram(t, db, coach)

	enrollment := models.Enrollment{ProgramID: program.ID, MemberID: member.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	discussions := NewDiscussionService(db, nil)
	for _, text := range []string{"first", "second", "third"} {
		_, err := discussions.CreateDiscussion(NewDiscussionRequest{
			EnrollmentID: enrollment.ID,
			CreatedByID:  member.ID,
			ToUserID:     coach.ID,
			Description:  text,
		})
		require.NoError(t, err)
	}

	thread, err := discussions.ListByEnrollment(enrollment.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "first", thread[0].Description)
	assert.Equal(t, "third", thread[2].Description)
}
