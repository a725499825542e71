package routes

import (
	"errors"
	"strings"

	"github.com/chaitanyaB4u/ferries/models"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// Register creates a user keyed by e-mail and hands back a token pair.
// Registering an existing e-mail just signs the existing user in.
func Register(ctx iris.Context) {
	var input struct {
		FirstName string `json:"firstName" validate:"required,max=256"`
		LastName  string `json:"lastName" validate:"max=256"`
		Email     string `json:"email" validate:"required,max=256,email"`
		UserType  string `json:"userType" validate:"omitempty,oneof=coach member"`
		Timezone  string `json:"timezone" validate:"max=64"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	userType := input.UserType
	if userType == "" {
		userType = models.UserTypeMember
	}

	var user models.User
	err := storage.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     email,
			UserType:  userType,
			Timezone:  input.Timezone,
		}
		if err := storage.DB.Create(&user).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	} else if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	respondWithTokens(ctx, &user)
}

// Login signs in an existing user by e-mail
func Login(ctx iris.Context) {
	var input struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := storage.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "no account registered for this e-mail", ctx)
		return
	}

	respondWithTokens(ctx, &user)
}

func respondWithTokens(ctx iris.Context, user *models.User) {
	tokenPair, err := utils.CreateTokenPair(user.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"email":        user.Email,
		"userType":     user.UserType,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// GetUser returns a user's public profile
func GetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"user": user})
}

// UpdateUserProfile updates the caller's own profile fields
func UpdateUserProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input struct {
		FirstName string `json:"firstName" validate:"max=256"`
		LastName  string `json:"lastName" validate:"max=256"`
		AvatarURL string `json:"avatarURL" validate:"max=512"`
		Bio       string `json:"bio" validate:"max=5000"`
		Timezone  string `json:"timezone" validate:"max=64"`
	}

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Timezone != "" {
		user.Timezone = input.Timezone
	}

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"user": user})
}
