// Package bootstrap builds the application dependency graph from config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/assemble"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/contact"
	"resume-builder/internal/feedback"
	"resume-builder/internal/llm"
	openai "resume-builder/internal/llm/openai"
	"resume-builder/internal/photo"
	"resume-builder/internal/profiles"
	"resume-builder/internal/render"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/submissions"
	"resume-builder/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	SubmissionsRepo submissions.Repo
	ProfilesRepo    profiles.Repo
	FeedbackRepo    feedback.Repo
	UsersRepo       users.Repo

	SubmissionsService *submissions.Service
	ProfilesService    *profiles.Service
	FeedbackService    *feedback.Service
	UsersService       *users.Service

	SubmissionHandler *submissions.Handler
	ProfileHandler    *profiles.Handler
	FeedbackHandler   *feedback.Handler
	UserHandler       *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		SubmissionHandler: app.SubmissionHandler,
		ProfileHandler:    app.ProfileHandler,
		FeedbackHandler:   app.FeedbackHandler,
		UserHandler:       app.UserHandler,
		GoogleAuth:        app.GoogleAuth,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var (
		subRepo     submissions.Repo
		profileRepo profiles.Repo
		fbRepo      feedback.Repo
		userRepo    users.Repo
	)
	if app.DB != nil {
		subRepo = &submissions.PGRepo{DB: app.DB}
		profileRepo = &profiles.PGRepo{DB: app.DB}
		fbRepo = &feedback.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		subRepo = submissions.NewMemoryRepo()
		profileRepo = profiles.NewMemoryRepo()
		fbRepo = feedback.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" {
		client, err := openai.NewClient(app.Config.LLMAPIKey, app.Config.LLMModel, app.Config.LLMBaseURL)
		switch {
		case err == nil:
			llmClient = client
		case isDevLike(app.Config.Env):
			log.Printf("bootstrap: llm client unavailable, submissions will fail generation: %v", err)
		default:
			return err
		}
	}

	profileSvc := profiles.NewService(profileRepo, app.Config.MaxProfileChars)
	userSvc := users.NewService(userRepo)
	feedbackSvc := feedback.NewService(fbRepo)

	subSvc := &submissions.Service{
		Repo:     subRepo,
		Profiles: profileSvc,
		Store:    app.Store,
		LLM:      llmClient,
		Renderer: render.NewChromeRenderer(app.Config.ChromePath),
		Photos:   photo.NewNormalizer(app.Config.PhotoSize, app.Config.PhotoQuality),
		Assembly: assemble.NewInstantiator(contact.NewClassifier(app.Config.AssetsDir)),
	}

	app.SubmissionsRepo = subRepo
	app.ProfilesRepo = profileRepo
	app.FeedbackRepo = fbRepo
	app.UsersRepo = userRepo
	app.SubmissionsService = subSvc
	app.ProfilesService = profileSvc
	app.FeedbackService = feedbackSvc
	app.UsersService = userSvc
	app.SubmissionHandler = submissions.NewHandler(subSvc)
	app.ProfileHandler = profiles.NewHandler(profileSvc)
	app.FeedbackHandler = feedback.NewHandler(feedbackSvc, isDevLike(app.Config.Env))
	app.UserHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
	return nil
}
