package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Marmoset/config"
	"github.com/lshigami/Marmoset/database"
	_ "github.com/lshigami/Marmoset/docs" // Swagger docs
	adminctrl "github.com/lshigami/Marmoset/internal/controller/admin"
	userctrl "github.com/lshigami/Marmoset/internal/controller/user"
	"github.com/lshigami/Marmoset/internal/logger"
	"github.com/lshigami/Marmoset/internal/middleware"
	"github.com/lshigami/Marmoset/internal/model"
	"github.com/lshigami/Marmoset/internal/repository"
	"github.com/lshigami/Marmoset/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Marmoset Contest API
// @version 1.0
// @description Timed quiz contests with attempts, role-gated administration and frozen leaderboards.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			database.NewRedisClient,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewContestRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewLeaderboardRepository,
			repository.NewLeaderboardCache,
			repository.NewUserRepository,
		),

		fx.Provide(
			service.NewTokenService,
			service.NewAuthService,
			service.NewScorerService,
			service.NewContestService,
			service.NewAttemptService,
			service.NewLeaderboardService,
		),

		fx.Provide(
			adminctrl.NewAdminContestController,
			userctrl.NewAuthController,
			userctrl.NewUserContestController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens service.TokenService,
	authCtrl *userctrl.AuthController,
	contestCtrl *userctrl.UserContestController,
	adminCtrl *adminctrl.AdminContestController,
) {
	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)

		contests := api.Group("/contests", middleware.RequireAuth(tokens))
		contests.GET("", contestCtrl.GetAllContests)
		contests.GET("/completed", contestCtrl.GetCompletedContests)
		contests.GET("/:contest_id", contestCtrl.GetContest)
		contests.POST("/:contest_id/attempts", contestCtrl.SubmitAttempt)
		contests.GET("/:contest_id/my-attempt", contestCtrl.GetMyAttempt)
		contests.GET("/:contest_id/leaderboard", contestCtrl.GetLeaderboard)

		admin := api.Group("/admin", middleware.RequireAuth(tokens), middleware.RequireRoles(model.RoleAdmin, model.RoleSubAdmin))
		admin.POST("/contests", adminCtrl.CreateContest)
		admin.PUT("/contests/:contest_id", adminCtrl.UpdateContest)
		// Score override is further restricted to ADMIN inside the service.
		admin.POST("/contests/:contest_id/attempts/:user_id/score", adminCtrl.OverrideScore)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Contest API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Contest{},
		&model.Question{},
		&model.Option{},
		&model.Attempt{},
		&model.LeaderboardEntry{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
