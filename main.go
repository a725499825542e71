package main

import (
	"fmt"
	"os"

	"github.com/chaitanyaB4u/ferries/routes"
	"github.com/chaitanyaB4u/ferries/services"
	"github.com/chaitanyaB4u/ferries/storage"
	"github.com/chaitanyaB4u/ferries/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Background mail dispatcher
	dispatcher := services.NewMailDispatcher(
		storage.DB,
		utils.NewSendGridMailer(),
		services.MailDispatchInterval(),
		services.MailBatchSize(),
	)
	dispatcher.Start()
	iris.RegisterOnInterrupt(dispatcher.Stop)

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/{id:uint}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Patch("/profile", accessTokenVerifierMiddleware, routes.UpdateUserProfile)
	}

	program := app.Party("/api/program", accessTokenVerifierMiddleware)
	{
		program.Post("/", utils.CoachOnlyMiddleware, routes.CreateProgram)
		program.Get("/", utils.CoachOnlyMiddleware, routes.GetCoachPrograms)
		program.Get("/{id:uint}", routes.GetProgram)
		program.Get("/{id:uint}/enrollments", routes.GetProgramEnrollments)
	}

	enrollment := app.Party("/api/enrollment", accessTokenVerifierMiddleware)
	{
		enrollment.Post("/", utils.CoachOnlyMiddleware, routes.CreateManagedEnrollment)
		enrollment.Get("/{id:uint}/discussions", routes.GetEnrollmentDiscussions)
		enrollment.Get("/{id:uint}/objectives", routes.GetEnrollmentObjectives)
		enrollment.Get("/{id:uint}/tasks", routes.GetEnrollmentTasks)
	}

	session := app.Party("/api/session", accessTokenVerifierMiddleware)
	{
		session.Post("/", utils.CoachOnlyMiddleware, routes.CreateSession)
		session.Get("/{id:uint}", routes.GetSession)
		session.Patch("/{id:uint}/state", routes.AlterEventState)
		session.Post("/notes", routes.CreateSessionNote)
		session.Get("/{id:uint}/notes", routes.GetSessionNotes)
	}

	conference := app.Party("/api/conference", accessTokenVerifierMiddleware)
	{
		conference.Post("/", utils.CoachOnlyMiddleware, routes.CreateConference)
		conference.Patch("/{id:uint}/state", utils.CoachOnlyMiddleware, routes.AlterConferenceState)
		conference.Patch("/{id:uint}/members", utils.CoachOnlyMiddleware, routes.ManageConferenceMembers)
		conference.Get("/{id:uint}/sessions", routes.GetConferenceSessions)
	}

	discussion := app.Party("/api/discussion", accessTokenVerifierMiddleware)
	{
		discussion.Post("/", routes.CreateDiscussion)
		discussion.Get("/pending", routes.GetPendingFeeds)
		discussion.Get("/pending/count", routes.CountPendingFeeds)
	}

	mail := app.Party("/api/mail", accessTokenVerifierMiddleware, utils.CoachOnlyMiddleware)
	{
		mail.Post("/sendable", routes.GetSendableMails)
		mail.Post("/{id}/outcome", routes.ReportMailOutcome)
	}

	planning := app.Party("/api/planning", accessTokenVerifierMiddleware)
	{
		planning.Post("/objectives", utils.CoachOnlyMiddleware, routes.CreateObjective)
		planning.Post("/tasks", utils.CoachOnlyMiddleware, routes.CreateTask)
		planning.Post("/tasks/{id:uint}/respond", routes.RespondToTask)
		planning.Post("/observations", utils.CoachOnlyMiddleware, routes.CreateObservation)
		planning.Post("/constraints", utils.CoachOnlyMiddleware, routes.CreateConstraint)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	app.Listen(fmt.Sprintf(":%s", port))
}
