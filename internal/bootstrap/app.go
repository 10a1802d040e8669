package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/ai"
	"jobtracker-backend/internal/ai/gemini"
	"jobtracker-backend/internal/ai/openai"
	googleauth "jobtracker-backend/internal/auth"
	"jobtracker-backend/internal/emails"
	"jobtracker-backend/internal/jobs"
	"jobtracker-backend/internal/mailer"
	"jobtracker-backend/internal/resumes"
	"jobtracker-backend/internal/services/health"
	"jobtracker-backend/internal/shared/auth"
	"jobtracker-backend/internal/shared/config"
	"jobtracker-backend/internal/shared/server"
	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/storage/db"
	"jobtracker-backend/internal/shared/storage/object"
	localstore "jobtracker-backend/internal/shared/storage/object/local"
	s3store "jobtracker-backend/internal/shared/storage/object/s3"
	"jobtracker-backend/internal/shared/telemetry"
	"jobtracker-backend/internal/tasks"
	"jobtracker-backend/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.FileStore
	AI     *ai.Registry
	Mail   mailer.Sender
	Signer *auth.Signer

	UsersService   *users.Service
	JobsService    *jobs.Service
	TasksService   *tasks.Service
	ResumesService *resumes.Service
	EmailsService  *emails.Service
	HealthService  *health.Service

	UsersHandler   *users.Handler
	JobsHandler    *jobs.Handler
	TasksHandler   *tasks.Handler
	ResumesHandler *resumes.Handler
	EmailsHandler  *emails.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Options tweaks Build. Zero value is the normal server path.
type Options struct {
	// Migrate applies pending migrations after connecting.
	Migrate bool
}

// Build connects storage, constructs every service and mounts the routes.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil && opts.Migrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTExpiry, cfg.Env == "production")
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		AI:     buildRegistry(cfg),
		Mail:   buildMailer(cfg),
		Signer: signer,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Verifier:      signer,
		Users:         app.UsersService,
		Health:        app.HealthService,
		Limiter:       middleware.NewRateLimiter(time.Now),
		GoogleAuth:    app.GoogleAuth,
		UserHandler:   app.UsersHandler,
		JobHandler:    app.JobsHandler,
		TaskHandler:   app.TasksHandler,
		ResumeHandler: app.ResumesHandler,
		EmailHandler:  app.EmailsHandler,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.FileStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:     cfg.AWSRegion,
			Bucket:     cfg.S3Bucket,
			Prefix:     cfg.S3Prefix,
			KMSKeyID:   cfg.SSEKMSKeyID,
			PresignTTL: cfg.PresignTTL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

// Both providers are always registered; a missing key surfaces as
// ProviderUnavailable on first use.
func buildRegistry(cfg config.Config) *ai.Registry {
	return ai.NewRegistry(map[ai.Provider]ai.Generator{
		ai.ProviderOpenAI: openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout),
		ai.ProviderGemini: gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, "", cfg.LLMTimeout),
	})
}

func buildMailer(cfg config.Config) mailer.Sender {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		telemetry.Warn("bootstrap.mailer.unconfigured", nil)
		return mailer.Unconfigured{}
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
}

func buildServices(app *App) {
	var (
		usersRepo   users.Repo
		jobsRepo    jobs.Repo
		tasksRepo   tasks.Repo
		resumesRepo resumes.Repo
		emailsRepo  emails.Repo
	)
	if app.DB != nil {
		usersRepo = &users.PGRepo{DB: app.DB}
		jobsRepo = &jobs.PGRepo{DB: app.DB}
		tasksRepo = &tasks.PGRepo{DB: app.DB}
		resumesRepo = &resumes.PGRepo{DB: app.DB}
		emailsRepo = &emails.PGRepo{DB: app.DB}
	} else {
		usersRepo = users.NewMemoryRepo()
		jobsRepo = jobs.NewMemoryRepo()
		tasksRepo = tasks.NewMemoryRepo()
		resumesRepo = resumes.NewMemoryRepo()
		emailsRepo = emails.NewMemoryRepo()
	}

	app.UsersService = users.NewService(usersRepo)
	app.JobsService = jobs.NewService(jobsRepo)
	app.TasksService = tasks.NewService(tasksRepo, app.JobsService)
	app.ResumesService = resumes.NewService(resumesRepo, app.Store, app.Config.ResumeFolder)

	// Postgres cascades through foreign keys; the memory repos need the hooks.
	if mem, ok := tasksRepo.(*tasks.MemoryRepo); ok {
		app.JobsService.OnDelete(mem.DeleteByJob)
	}
	if mem, ok := emailsRepo.(*emails.MemoryRepo); ok {
		app.JobsService.OnDelete(mem.DeleteByJob)
	}

	app.EmailsService = emails.NewService(emails.Deps{
		Repo:    emailsRepo,
		Users:   app.UsersService,
		Jobs:    app.JobsService,
		Resumes: app.ResumesService,
		Store:   app.Store,
		AI:      app.AI,
		Mail:    app.Mail,
		From:    mailer.Address{Name: app.Config.MailFromName, Email: app.Config.MailFrom},
	})

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.HealthService = health.NewService(pinger, configuredProviders(app.Config))

	app.UsersHandler = users.NewHandler(app.UsersService)
	app.JobsHandler = jobs.NewHandler(app.JobsService)
	app.TasksHandler = tasks.NewHandler(app.TasksService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService, app.Config.MaxUploadBytes)
	app.EmailsHandler = emails.NewHandler(app.EmailsService)

	if app.Config.GoogleClientID != "" {
		app.GoogleAuth = googleauth.NewGoogleService(
			app.Config.GoogleClientID,
			app.Config.GoogleClientSecret,
			app.Config.GoogleRedirectURL,
			app.Config.UIRedirectURL,
			app.Signer,
			app.UsersService,
		)
	}
}

func configuredProviders(cfg config.Config) func() []string {
	return func() []string {
		out := []string{}
		if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
			out = append(out, string(ai.ProviderOpenAI))
		}
		if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
			out = append(out, string(ai.ProviderGemini))
		}
		return out
	}
}
