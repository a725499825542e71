package routes

import (
	"github.com/chaitanyaB4u/ferries/services"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// CreateDiscussion posts a message into an enrollment thread
func CreateDiscussion(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input struct {
		EnrollmentID uint   `json:"enrollmentId" validate:"required"`
		ToUserID     uint   `json:"toUserId" validate:"required"`
		Description  string `json:"description" validate:"required,max=5000"`

		ProgramID   uint   `json:"programId"`
		ProgramName string `json:"programName"`
		CoachID     uint   `json:"coachId"`
		CoachName   string `json:"coachName"`
		MemberID    uint   `json:"memberId"`
		MemberName  string `json:"memberName"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	discussions := services.NewDiscussionService(storage.DB, storage.Redis)
	discussion, err := discussions.CreateDiscussion(services.NewDiscussionRequest{
		EnrollmentID: input.EnrollmentID,
		CreatedByID:  claims.ID,
		ToUserID:     input.ToUserID,
		Description:  input.Description,
		ProgramID:    input.ProgramID,
		ProgramName:  input.ProgramName,
		CoachID:      input.CoachID,
		CoachName:    input.CoachName,
		MemberID:     input.MemberID,
		MemberName:   input.MemberName,
	})
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"discussion": discussion})
}

// GetPendingFeeds returns the newest feeds awaiting the caller's response
func GetPendingFeeds(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	limit := ctx.URLParamIntDefault("limit", 0)

	discussions := services.NewDiscussionService(storage.DB, storage.Redis)
	feeds, err := discussions.ListPending(claims.ID, limit)
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"feeds": feeds})
}

// CountPendingFeeds returns the caller's pending-response badge count
func CountPendingFeeds(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	discussions := services.NewDiscussionService(storage.DB, storage.Redis)
	count, err := discussions.CountPending(ctx.Request().Context(), claims.ID)
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"count": count})
}

// GetEnrollmentDiscussions returns a thread, oldest first
func GetEnrollmentDiscussions(ctx iris.Context) {
	enrollmentID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	discussions := services.NewDiscussionService(storage.DB, storage.Redis)
	thread, svcErr := discussions.ListByEnrollment(enrollmentID)
	if svcErr != nil {
		respondServiceError(svcErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"discussions": thread})
}
