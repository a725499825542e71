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

// CreateSession books a 1:1 session between the coach and a member
func CreateSession(ctx iris.Context) {
	var input struct {
		ProgramID   uint      `json:"programId" validate:"required"`
		MemberID    uint      `json:"memberId" validate:"required"`
		Name        string    `json:"name" validate:"required,max=256"`
		Description string    `json:"description" validate:"max=5000"`
		Duration    int       `json:"duration" validate:"required,min=1"`
		StartTime   time.Time `json:"startTime" validate:"required"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	sessions := services.NewSessionService(storage.DB)
	session, err := sessions.CreateSession(services.NewSessionRequest{
		ProgramID:   input.ProgramID,
		MemberID:    input.MemberID,
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
		"session": session,
		"status":  session.Status(time.Now()),
	})
}

// AlterEventState drives a session through its lifecycle. Sessions that
// belong to a conference follow the conference instead.
func AlterEventState(ctx iris.Context) {
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

	sessions := services.NewSessionService(storage.DB)
	session, err := sessions.AlterState(services.ChangeStateRequest{
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
		"session": session,
		"status":  session.Status(time.Now()),
	})
}

// GetSession returns the session with its members
func GetSession(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	sessions := services.NewSessionService(storage.DB)
	session, svcErr := sessions.GetSession(id)
	if svcErr != nil {
		respondServiceError(svcErr, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"session": session,
		"status":  session.Status(time.Now()),
	})
}
