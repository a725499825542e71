package routes

import (
	"time"

	"github.com/chaitanyaB4u/ferries/models"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// CreateObjective plans a goal for an enrollment window
func CreateObjective(ctx iris.Context) {
	var input struct {
		EnrollmentID uint      `json:"enrollmentId" validate:"required"`
		Description  string    `json:"description" validate:"required,max=5000"`
		Duration     int       `json:"duration" validate:"required,min=1"`
		StartTime    time.Time `json:"startTime" validate:"required"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	objective := models.Objective{
		EnrollmentID: input.EnrollmentID,
		Description:  input.Description,
		Schedule: models.Schedule{
			Duration:      input.Duration,
			OriginalStart: input.StartTime,
			OriginalEnd:   input.StartTime.Add(time.Duration(input.Duration) * time.Minute),
		},
	}

	if err := storage.DB.Create(&objective).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"objective": objective})
}

// GetEnrollmentObjectives lists the objectives of an enrollment, earliest first
func GetEnrollmentObjectives(ctx iris.Context) {
	enrollmentID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var objectives []models.Objective
	if err := storage.DB.
		Where("enrollment_id = ?", enrollmentID).
		Order("original_start ASC").
		Find(&objectives).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"objectives": objectives})
}

// CreateTask assigns an activity to a member of an enrollment
func CreateTask(ctx iris.Context) {
	var input struct {
		EnrollmentID uint      `json:"enrollmentId" validate:"required"`
		ActorID      uint      `json:"actorId" validate:"required"`
		Name         string    `json:"name" validate:"required,max=256"`
		Description  string    `json:"description" validate:"max=5000"`
		Duration     int       `json:"duration" validate:"required,min=1"`
		StartTime    time.Time `json:"startTime" validate:"required"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	task := models.Task{
		EnrollmentID: input.EnrollmentID,
		ActorID:      input.ActorID,
		Name:         input.Name,
		Description:  input.Description,
		Schedule: models.Schedule{
			Duration:      input.Duration,
			OriginalStart: input.StartTime,
			OriginalEnd:   input.StartTime.Add(time.Duration(input.Duration) * time.Minute),
		},
	}

	if err := storage.DB.Create(&task).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"task": task})
}

// GetEnrollmentTasks lists the tasks of an enrollment, earliest first
func GetEnrollmentTasks(ctx iris.Context) {
	enrollmentID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var tasks []models.Task
	if err := storage.DB.
		Where("enrollment_id = ?", enrollmentID).
		Order("original_start ASC").
		Find(&tasks).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"tasks": tasks})
}

// RespondToTask marks a task as responded by its actor
func RespondToTask(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var task models.Task
	if err := storage.DB.First(&task, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if task.ActorID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	now := time.Now().UTC()
	if err := storage.DB.Model(&task).Update("responded_at", &now).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"task": task})
}

// CreateSessionNote attaches a note to a session
func CreateSessionNote(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input struct {
		SessionID   uint       `json:"sessionId" validate:"required"`
		Description string     `json:"description" validate:"required,max=5000"`
		RemindAt    *time.Time `json:"remindAt"`
		IsPrivate   bool       `json:"isPrivate"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	note := models.Note{
		SessionID:   input.SessionID,
		CreatedByID: claims.ID,
		Description: input.Description,
		RemindAt:    input.RemindAt,
		IsPrivate:   input.IsPrivate,
	}

	if err := storage.DB.Create(&note).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"note": note})
}

// GetSessionNotes lists a session's notes, hiding other people's private ones
func GetSessionNotes(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	sessionID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var notes []models.Note
	if err := storage.DB.
		Where("session_id = ? AND (is_private = ? OR created_by_id = ?)", sessionID, false, claims.ID).
		Order("created_at ASC").
		Find(&notes).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"notes": notes})
}

// CreateObservation records a coach observation against an enrollment
func CreateObservation(ctx iris.Context) {
	var input struct {
		EnrollmentID uint   `json:"enrollmentId" validate:"required"`
		Description  string `json:"description" validate:"required,max=5000"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	observation := models.Observation{
		EnrollmentID: input.EnrollmentID,
		Description:  input.Description,
	}

	if err := storage.DB.Create(&observation).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"observation": observation})
}

// CreateConstraint records a limiting factor against an enrollment
func CreateConstraint(ctx iris.Context) {
	var input struct {
		EnrollmentID uint   `json:"enrollmentId" validate:"required"`
		Description  string `json:"description" validate:"required,max=5000"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	constraint := models.Constraint{
		EnrollmentID: input.EnrollmentID,
		Description:  input.Description,
	}

	if err := storage.DB.Create(&constraint).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"constraint": constraint})
}
