package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/reports"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/scoring"
	"recruit-backend/internal/shared/auth"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/server"
	"recruit-backend/internal/shared/storage/db"
	"recruit-backend/internal/shared/storage/object"
	localstore "recruit-backend/internal/shared/storage/object/local"
	s3store "recruit-backend/internal/shared/storage/object/s3"
	"recruit-backend/internal/users"
	"recruit-backend/internal/workerproc"
)

// App holds shared dependencies for both the API and worker processes.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Queue    queue.Client
	Consumer queue.Consumer

	ResumesRepo resumes.Repo
	UsersRepo   users.Repo
	Reports     reports.Store
	Records     notify.RecordStore

	ResumesService  *resumes.Service
	UsersService    *users.Service
	AnalysisService *analysis.Service
	Dispatcher      *notify.Dispatcher
	Mailer          *notify.Mailer

	ResumesHandler  *resumes.Handler
	AnalysisHandler *analysis.Handler
	UsersHandler    *users.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
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

	queueClient, consumer, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Queue:    queueClient,
		Consumer: consumer,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Verifier:        verifier,
		ResumesHandler:  app.ResumesHandler,
		AnalysisHandler: app.AnalysisHandler,
		UsersHandler:    app.UsersHandler,
	})

	return app, nil
}

// WorkerDeps bundles the app's services for the queue message dispatcher.
func (a *App) WorkerDeps() workerproc.Deps {
	return workerproc.Deps{
		Objects:  a.Store,
		Resumes:  a.ResumesRepo,
		Users:    a.UsersRepo,
		Analysis: a.AnalysisService,
		Mailer:   a.Mailer,
		Notifier: a.Dispatcher,
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultServerOptions())
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, queue.Consumer, error) {
	switch cfg.QueueBackend {
	case "sqs":
		if strings.TrimSpace(cfg.SQSQueueURL) == "" {
			return nil, nil, fmt.Errorf("QUEUE_BACKEND=sqs requires SQS_QUEUE_URL")
		}
		q, err := queue.NewSQSQueue(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		return q, q, nil
	case "memory":
		q := queue.NewMemoryQueue()
		return q, q, nil
	default:
		q := queue.NewRedisQueue(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := q.Ping(ctx); err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: redis unreachable; using in-memory queue: %v", err)
				mq := queue.NewMemoryQueue()
				return mq, mq, nil
			}
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return q, q, nil
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

func buildEngines(ctx context.Context, cfg config.Config) (map[string]scoring.Engine, string, error) {
	scoringCfg := scoring.Config{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
	}

	engines := make(map[string]scoring.Engine)
	heuristic, err := scoring.New(ctx, scoringCfg, scoring.ProviderHeuristic)
	if err != nil {
		return nil, "", err
	}
	engines[scoring.ProviderHeuristic] = heuristic

	if cfg.OpenAIAPIKey != "" {
		engine, err := scoring.New(ctx, scoringCfg, scoring.ProviderOpenAI)
		if err != nil {
			return nil, "", err
		}
		engines[scoring.ProviderOpenAI] = engine
	}
	if cfg.GeminiAPIKey != "" {
		engine, err := scoring.New(ctx, scoringCfg, scoring.ProviderGemini)
		if err != nil {
			return nil, "", err
		}
		engines[scoring.ProviderGemini] = engine
	}

	defaultProvider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if _, ok := engines[defaultProvider]; !ok {
		log.Printf("bootstrap: provider %q not configured; defaulting to %s", cfg.LLMProvider, scoring.ProviderHeuristic)
		defaultProvider = scoring.ProviderHeuristic
	}
	return engines, defaultProvider, nil
}

func buildSender(cfg config.Config) (notify.Sender, error) {
	if strings.TrimSpace(cfg.MailHost) == "" {
		log.Printf("bootstrap: MAIL_SERVER empty; logging notifications instead of sending")
		return notify.LogSender{}, nil
	}
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.Records = &notify.PGRecordStore{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
		app.Records = notify.NewMemoryRecordStore()
	}

	switch cfg.ReportStore {
	case "db":
		if app.DB == nil {
			log.Printf("bootstrap: REPORT_STORE=db without a database; storing reports as artifacts")
			app.Reports = &reports.ArtifactStore{Objects: app.Store, Resumes: app.ResumesRepo}
		} else {
			app.Reports = &reports.PGStore{DB: app.DB}
		}
	default:
		app.Reports = &reports.ArtifactStore{Objects: app.Store, Resumes: app.ResumesRepo}
	}

	engines, defaultProvider, err := buildEngines(ctx, cfg)
	if err != nil {
		return err
	}

	sender, err := buildSender(cfg)
	if err != nil {
		return err
	}

	app.Dispatcher = &notify.Dispatcher{Queue: app.Queue, Records: app.Records}
	app.Mailer = &notify.Mailer{Sender: sender, Records: app.Records}

	app.ResumesService = &resumes.Service{
		Store: app.Store,
		Repo:  app.ResumesRepo,
		Queue: app.Queue,
	}
	app.UsersService = users.NewService(app.UsersRepo)
	app.AnalysisService = &analysis.Service{
		Resumes:         app.ResumesRepo,
		Users:           app.UsersRepo,
		Objects:         app.Store,
		Reports:         app.Reports,
		Queue:           app.Queue,
		Engines:         engines,
		DefaultProvider: defaultProvider,
		Dispatcher:      app.Dispatcher,
		DashboardURL:    cfg.DashboardURL,
	}

	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
	app.AnalysisHandler = analysis.NewHandler(app.AnalysisService)
	app.UsersHandler = users.NewHandler(app.UsersService)
	return nil
}
