package routes

import (
	"github.com/chaitanyaB4u/ferries/services"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
)

// respondServiceError translates a service error into the HTTP surface.
func respondServiceError(err error, ctx iris.Context) {
	svcErr, ok := services.AsServiceError(err)
	if !ok {
		utils.CreateInternalServerError(ctx)
		return
	}

	switch svcErr.Code {
	case services.CodeValidation:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", svcErr.Message, ctx)
	case services.CodeNotFound:
		utils.CreateError(iris.StatusNotFound, "Not Found", svcErr.Message, ctx)
	case services.CodeStateChangeProhibited, services.CodeUnremovableSession:
		utils.CreateError(iris.StatusConflict, string(svcErr.Code), svcErr.Message, ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}
