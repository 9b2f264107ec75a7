package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"aideo-backend/internal/ai"
	authapi "aideo-backend/internal/auth"
	"aideo-backend/internal/documents"
	"aideo-backend/internal/ingest"
	"aideo-backend/internal/ocr"
	sharedauth "aideo-backend/internal/shared/auth"
	"aideo-backend/internal/shared/config"
	"aideo-backend/internal/shared/server"
	"aideo-backend/internal/shared/storage/db"
	"aideo-backend/internal/shared/storage/object"
	localstore "aideo-backend/internal/shared/storage/object/local"
	s3store "aideo-backend/internal/shared/storage/object/s3"
	"aideo-backend/internal/shared/telemetry"
	"aideo-backend/internal/users"
)

// App holds the wired application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Tokens *sharedauth.Tokens

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo

	DocumentsService *documents.Service
	Pipeline         *ingest.Pipeline

	AuthHandler      *authapi.Handler
	DocumentsHandler *documents.Handler
	IngestHandler    *ingest.Handler
}

// Build prepares all dependencies and the router.
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
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	var userRepo users.Repo
	var docRepo documents.Repo
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
	}

	structurer, err := buildStructurer(cfg)
	if err != nil {
		return nil, err
	}

	tokens := sharedauth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	extractor := ocr.New(cfg.OCRLanguages, cfg.OCRWorkers)

	docSvc := documents.NewService(docRepo, store, cfg.PresignTTL)
	pipeline := ingest.NewPipeline(store, extractor, structurer, docRepo, userRepo)

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Store:            store,
		Tokens:           tokens,
		UsersRepo:        userRepo,
		DocumentsRepo:    docRepo,
		DocumentsService: docSvc,
		Pipeline:         pipeline,
		AuthHandler:      authapi.NewHandler(userRepo, tokens),
		DocumentsHandler: documents.NewHandler(docSvc),
		IngestHandler:    ingest.NewHandler(pipeline, cfg.MaxUploadMB<<20),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Tokens:           tokens,
		UserResolver:     &users.Resolver{Repo: userRepo},
		AuthHandler:      app.AuthHandler,
		DocumentsHandler: app.DocumentsHandler,
		IngestHandler:    app.IngestHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{
				"reason": "DATABASE_URL empty",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{
				"reason": err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Config{
			Endpoint:  cfg.StorageEndpoint,
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Bucket:    cfg.Bucket,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.Bucket), nil
	}
}

func buildStructurer(cfg config.Config) (*ai.Structurer, error) {
	var client ai.Client
	switch strings.ToLower(strings.TrimSpace(cfg.AIProvider)) {
	case "openai":
		c, err := ai.NewOpenAI(cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
		if err != nil {
			return nil, err
		}
		client = c
	default:
		client = ai.NewSimulated()
	}
	return ai.NewStructurer(client, cfg.AITimeout), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
