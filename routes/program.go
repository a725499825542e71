package routes

import (
	"github.com/chaitanyaB4u/ferries/models"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// CreateProgram creates a coaching program owned by the caller
func CreateProgram(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input struct {
		Name        string `json:"name" validate:"required,max=256"`
		Description string `json:"description" validate:"max=5000"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	program := models.Program{
		Name:        input.Name,
		Description: input.Description,
		CoachID:     claims.ID,
		IsActive:    true,
	}

	if err := storage.DB.Create(&program).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"program": program})
}

// GetProgram returns one program with its coach
func GetProgram(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var program models.Program
	if err := storage.DB.Preload("Coach").First(&program, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"program": program})
}

// GetCoachPrograms lists the caller's active programs, paginated
func GetCoachPrograms(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := storage.DB.Model(&models.Program{}).
		Where("coach_id = ? AND is_active = ?", claims.ID, true).
		Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var programs []models.Program
	if err := storage.DB.
		Where("coach_id = ? AND is_active = ?", claims.ID, true).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&programs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, programs, page, perPage, total)
}
