package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/config"
	"prohire/resume-screener/internal/handlers"
	"prohire/resume-screener/internal/logger"
	"prohire/resume-screener/internal/middleware"
	"prohire/resume-screener/internal/repositories"
	"prohire/resume-screener/internal/services"
)

// maxFilesPerRequest bounds the multipart body together with MAX_FILE_SIZE.
const maxFilesPerRequest = 50

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(logger.Options{JSON: cfg.Server.LogJSON, Debug: cfg.Server.LogDebug, Service: "api"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	log.Info("config loaded", zap.String("env", cfg.Server.Env), zap.Bool("env_file", cfg.EnvFileLoaded))

	ctx := context.Background()

	// Initialize database
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	batchRepo := repositories.NewBatchRepository(db)

	// Initialize blob storage
	blobs, closeBlobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize blob storage", zap.Error(err))
	}
	log.Info("blob storage initialized", zap.String("backend", cfg.Storage.Backend))

	// Initialize Gemini AI
	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:         cfg.Gemini.APIKey,
		ModelName:      cfg.Gemini.Model,
		Timeout:        cfg.Gemini.CallTimeout,
		ThinkingBudget: cfg.Gemini.ThinkingBudget,
	}, log.Named("gemini"))
	if err != nil {
		log.Fatal("failed to initialize Gemini AI", zap.Error(err))
	}
	log.Info("Gemini AI initialized", zap.String("model", cfg.Gemini.Model))

	// Initialize screening pipeline
	extractors := services.NewExtractors(gemini, cfg.Storage.ScratchDir, log.Named("extract"))
	analyzer := services.NewAnalyzer(services.NewPromptBuilder(), gemini, log.Named("analyzer"))
	screening := services.NewScreeningService(
		extractors,
		analyzer,
		blobs,
		batchRepo,
		services.ScreeningOptions{
			ScratchDir:   cfg.Storage.ScratchDir,
			BatchTimeout: cfg.Screening.BatchTimeout,
		},
		log.Named("screening"),
	)
	reports := services.NewReportService(batchRepo, time.Now)
	tokens := middleware.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize Handlers
	screeningHandler := handlers.NewScreeningHandler(screening, cfg.Storage.MaxFileSize, log.Named("http"))
	resumeHandler := handlers.NewResumeHandler(blobs, log.Named("http"))
	reportHandler := handlers.NewReportHandler(reports, log.Named("http"))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screening API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.Screening.BatchTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * maxFilesPerRequest,
		ErrorHandler: detailErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins(), ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	registerRoutes(app, routeHandlers{
		screening: screeningHandler,
		resumes:   resumeHandler,
		reports:   reportHandler,
	}, middleware.RequireRecruiter(tokens))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	if err := closeBlobs(); err != nil {
		log.Warn("failed to close blob storage", zap.Error(err))
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config) (services.BlobStore, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BlobBackendGCS:
		return services.NewGCSBlobStore(ctx, cfg.Storage.GCSBucket, cfg.Storage.Timeout)
	default:
		store, err := services.NewLocalBlobStore(cfg.Storage.UploadPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

func detailErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			msg = e.Message
		} else {
			log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{"detail": msg})
	}
}
