package routes

import (
	"time"

	"github.com/chaitanyaB4u/ferries/models"
	"github.com/chaitanyaB4u/ferries/services"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// CreateConference books a conference for a program. The coach gets their
// own session immediately; members join through the members endpoint.
func CreateConference(ctx iris.Context) {
	var input struct {
		ProgramID   uint      `json:"programId" validate:"required"`
		Name        string    `json:"name" validate:"required,max=256"`
		Description string    `json:"description" validate:"max=5000"`
		Duration    int       `json:"duration" validate:"required,min=1"`
		StartTime   time.Time `json:"startTime" validate:"required"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	conferences := services.NewConferenceService(storage.DB)
	conference, err := conferences.CreateConference(services.NewConferenceRequest{
		ProgramID:   input.ProgramID,
		Name:        input.Name,
		Description: input.Description,
		Duration:    input.Duration,
		StartTime:   input.StartTime,
	})
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"conference": conference,
		"status":     conference.Status(time.Now()),
	})
}

// AlterConferenceState drives the conference and every member session with it
func AlterConferenceState(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input struct {
		TargetState  string  `json:"targetState" validate:"required"`
		ClosingNotes *string `json:"closingNotes"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	conferences := services.NewConferenceService(storage.DB)
	conference, err := conferences.AlterState(services.ChangeStateRequest{
		ID:           id,
		TargetState:  models.EventCommand(input.TargetState),
		ClosingNotes: input.ClosingNotes,
		ActorID:      claims.ID,
	})
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"conference": conference,
		"status":     conference.Status(time.Now()),
	})
}

// ManageConferenceMembers adds or removes members in bulk
func ManageConferenceMembers(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input struct {
		MemberIDs []uint `json:"memberIds" validate:"required,min=1"`
		Intention string `json:"intention" validate:"required,oneof=ADD REMOVE"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	conferences := services.NewConferenceService(storage.DB)
	affected, err := conferences.ManageMembers(services.MemberRequest{
		ConferenceID: id,
		MemberIDs:    input.MemberIDs,
		Intention:    services.MemberIntention(input.Intention),
		ActorID:      claims.ID,
	})
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"conferenceId": id,
		"intention":    input.Intention,
		"memberIds":    affected,
	})
}

// GetConferenceSessions lists the per-member sessions of a conference
func GetConferenceSessions(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	conferences := services.NewConferenceService(storage.DB)
	sessions, svcErr := conferences.MemberSessions(id)
	if svcErr != nil {
		respondServiceError(svcErr, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"conferenceId": id,
		"sessions":     sessions,
	})
}
