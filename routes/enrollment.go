package routes

import (
	"github.com/chaitanyaB4u/ferries/services"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// CreateManagedEnrollment enrolls a member into the coach's program and
// stages a welcome mail in the same transaction
func CreateManagedEnrollment(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input struct {
		ProgramID uint   `json:"programId" validate:"required"`
		MemberID  uint   `json:"memberId" validate:"required"`
		Subject   string `json:"subject" validate:"required,max=256"`
		Message   string `json:"message" validate:"required,max=5000"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	enrollments := services.NewEnrollmentService(storage.DB)
	enrollment, err := enrollments.ManagedEnrollment(services.ManagedEnrollmentRequest{
		ProgramID: input.ProgramID,
		MemberID:  input.MemberID,
		CoachID:   claims.ID,
		Subject:   input.Subject,
		Message:   input.Message,
	})
	if err != nil {
		respondServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"enrollment": enrollment})
}

// GetProgramEnrollments lists the enrollments of a program
func GetProgramEnrollments(ctx iris.Context) {
	programID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	enrollments := services.NewEnrollmentService(storage.DB)
	list, svcErr := enrollments.ListByProgram(programID)
	if svcErr != nil {
		respondServiceError(svcErr, ctx)
		return
	}

	ctx.JSON(iris.Map{"enrollments": list})
}
