package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/config"
	"prohire/resume-screener/internal/logger"
	"prohire/resume-screener/internal/models"
	"prohire/resume-screener/internal/repositories"
	"prohire/resume-screener/internal/services"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Screen resume files against a job description",
	Long: "Screen one or more resume files (PDF, DOCX, DOC, images) against a job description " +
		"and print one JSON result per file. With --save the batch is stored in the database " +
		"and the files in the configured blob storage.",
	Args: cobra.MinimumNArgs(1),
	RunE: runScreen,
}

var (
	runJDFile     string
	runHiringType string
	runLevel      string
	runRecruiter  string
	runSave       bool
)

func init() {
	runCmd.Flags().StringVarP(&runJDFile, "jd", "j", "", "Path to the job description text file (required)")
	runCmd.Flags().StringVar(&runHiringType, "hiring-type", "", "Hiring type: 1 Sales, 2 IT, 3 Non-Sales, 4 Sales Support (required)")
	runCmd.Flags().StringVar(&runLevel, "level", "", "Level: 1 Fresher, 2 Experienced (required)")
	runCmd.Flags().StringVar(&runRecruiter, "recruiter", "cli", "Recruiter name recorded with the batch")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Persist the batch and uploaded files")
	runCmd.Flags().Duration("batch-timeout", 0, "Bound for the whole batch (overrides BATCH_TIMEOUT)")

	_ = runCmd.MarkFlagRequired("jd")
	_ = runCmd.MarkFlagRequired("hiring-type")
	_ = runCmd.MarkFlagRequired("level")
	mustBind(settings.BindPFlag("BATCH_TIMEOUT", runCmd.Flags().Lookup("batch-timeout")))

	rootCmd.AddCommand(runCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	log, err := logger.New(logger.Options{
		JSON:    cfg.Server.LogJSON,
		Debug:   cfg.Server.LogDebug,
		Output:  "stderr",
		Service: "screen",
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	jd, err := os.ReadFile(runJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	blobs, batches, cleanup, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:         cfg.Gemini.APIKey,
		ModelName:      cfg.Gemini.Model,
		Timeout:        cfg.Gemini.CallTimeout,
		ThinkingBudget: cfg.Gemini.ThinkingBudget,
	}, log.Named("gemini"))
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini AI: %w", err)
	}

	screening := services.NewScreeningService(
		services.NewExtractors(gemini, cfg.Storage.ScratchDir, log.Named("extract")),
		services.NewAnalyzer(services.NewPromptBuilder(), gemini, log.Named("analyzer")),
		blobs,
		batches,
		services.ScreeningOptions{
			ScratchDir:   cfg.Storage.ScratchDir,
			BatchTimeout: cfg.Screening.BatchTimeout,
		},
		log.Named("screening"),
	)

	outcome, err := screening.ProcessBatch(ctx, services.BatchRequest{
		JobDescription: string(jd),
		Profile:        services.HiringProfile{HiringType: runHiringType, Level: runLevel},
		RecruiterName:  runRecruiter,
		Files:          docs,
	})
	if err != nil {
		return err
	}

	resp := models.AnalyzeResponse{Results: outcome.Results, HistorySaved: runSave && outcome.HistorySaved}
	if runSave && !outcome.HistorySaved {
		resp.Warning = fmt.Sprintf("batch not saved: %v", outcome.PersistErr)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func readDocuments(paths []string) ([]models.UploadedDocument, error) {
	docs := make([]models.UploadedDocument, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, models.UploadedDocument{
			Filename:    filepath.Base(path),
			Data:        data,
			ContentType: mimetype.Detect(data).String(),
			Size:        int64(len(data)),
		})
	}
	return docs, nil
}

// openStores returns the configured blob store and database when saving,
// otherwise a throwaway local store and a repository that keeps nothing.
func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.BlobStore, repositories.BatchRepository, func(), error) {
	if !runSave {
		dir, err := os.MkdirTemp(cfg.Storage.ScratchDir, "screen-blobs-*")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create blob directory: %w", err)
		}
		cleanup := func() { _ = os.RemoveAll(dir) }

		blobs, err := services.NewLocalBlobStore(dir)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		return blobs, discardBatches{}, cleanup, nil
	}

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	batches := repositories.NewBatchRepository(db)

	if cfg.Storage.Backend == config.BlobBackendGCS {
		blobs, closeBlobs, err := services.NewGCSBlobStore(ctx, cfg.Storage.GCSBucket, cfg.Storage.Timeout)
		if err != nil {
			return nil, nil, nil, err
		}
		return blobs, batches, func() {
			if err := closeBlobs(); err != nil {
				log.Warn("failed to close blob storage", zap.Error(err))
			}
		}, nil
	}

	blobs, err := services.NewLocalBlobStore(cfg.Storage.UploadPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return blobs, batches, func() {}, nil
}

// discardBatches drops batch records for dry runs.
type discardBatches struct{}

var errDryRun = errors.New("history is not kept without --save")

func (discardBatches) Create(context.Context, *models.BatchRecord) error { return nil }

func (discardBatches) SummaryByRecruiter(context.Context) ([]models.RecruiterTotals, error) {
	return nil, errDryRun
}

func (discardBatches) TotalsBetween(context.Context, time.Time, time.Time) ([]models.RecruiterTotals, error) {
	return nil, errDryRun
}

func (discardBatches) HistoryNewestFirst(context.Context) ([]models.BatchRecord, error) {
	return nil, errDryRun
}
