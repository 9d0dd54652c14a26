package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/models"
	"prohire/resume-screener/internal/repositories"
)

const persistTimeout = 30 * time.Second

var ErrInvalidBatch = errors.New("invalid batch request")

type BatchRequest struct {
	JobDescription string
	Profile        HiringProfile
	RecruiterName  string
	Files          []models.UploadedDocument
}

// BatchOutcome holds one result per submitted file, in submission order.
// Results are complete even when the batch record could not be saved.
type BatchOutcome struct {
	Results      []models.FileResult
	Batch        *models.BatchRecord
	HistorySaved bool
	PersistErr   error
}

type ScreeningService interface {
	ProcessBatch(ctx context.Context, req BatchRequest) (*BatchOutcome, error)
}

type ScreeningOptions struct {
	ScratchDir   string
	BatchTimeout time.Duration
	Now          func() time.Time
}

type screeningService struct {
	extractors Extractors
	analyzer   Analyzer
	blobs      BlobStore
	batches    repositories.BatchRepository
	scratchDir string
	timeout    time.Duration
	now        func() time.Time
	log        *zap.Logger
}

func NewScreeningService(
	extractors Extractors,
	analyzer Analyzer,
	blobs BlobStore,
	batches repositories.BatchRepository,
	opts ScreeningOptions,
	log *zap.Logger,
) ScreeningService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	scratch := opts.ScratchDir
	if scratch == "" {
		scratch = os.TempDir()
	}
	return &screeningService{
		extractors: extractors,
		analyzer:   analyzer,
		blobs:      blobs,
		batches:    batches,
		scratchDir: scratch,
		timeout:    opts.BatchTimeout,
		now:        now,
		log:        log,
	}
}

// ProcessBatch screens every file sequentially and records one batch.
// Per-file failures become error results; only invalid input is an error.
func (s *screeningService) ProcessBatch(ctx context.Context, req BatchRequest) (*BatchOutcome, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is empty", ErrInvalidBatch)
	}
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalidBatch)
	}
	if !s.analyzer.Supports(req.Profile) {
		return nil, ErrInvalidProfile
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	now := s.now().UTC()
	log := s.log.With(
		zap.String("recruiter", req.RecruiterName),
		zap.Int("files", len(req.Files)),
	)
	log.Info("screening batch started")

	batch := &models.BatchRecord{
		ID:            uuid.New(),
		RecruiterName: req.RecruiterName,
		TotalResumes:  len(req.Files),
		Timestamp:     now,
		History:       make([]models.HistoryEntry, 0, len(req.Files)),
	}
	results := make([]models.FileResult, 0, len(req.Files))

	for i, doc := range req.Files {
		result, entry := s.screenFile(ctx, req, doc, now)
		entry.Position = i

		switch entry.Decision {
		case models.DecisionShortlisted:
			batch.Shortlisted++
		case models.DecisionRejected:
			batch.Rejected++
		}

		results = append(results, result)
		batch.History = append(batch.History, entry)
	}

	outcome := &BatchOutcome{Results: results, Batch: batch}

	// The batch deadline may already have passed; the record is still written.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.batches.Create(persistCtx, batch); err != nil {
		log.Error("failed to save batch history", zap.Error(err))
		outcome.PersistErr = err
		return outcome, nil
	}
	outcome.HistorySaved = true

	log.Info("screening batch finished",
		zap.Int("shortlisted", batch.Shortlisted),
		zap.Int("rejected", batch.Rejected),
	)
	return outcome, nil
}

func (s *screeningService) screenFile(ctx context.Context, req BatchRequest, doc models.UploadedDocument, now time.Time) (models.FileResult, models.HistoryEntry) {
	filename := doc.Filename
	if filename == "" {
		filename = "Unknown"
	}
	suffix := strings.ToLower(filepath.Ext(filename))
	log := s.log.With(zap.String("file", filename))

	entry := models.HistoryEntry{
		ID:         uuid.New(),
		ResumeName: filename,
		HiringType: HiringTypeLabel(req.Profile.HiringType),
		Level:      LevelLabel(req.Profile.Level),
		UploadDate: FormatDateWithDay(now),
		FileID:     s.storeBlob(ctx, log, req.RecruiterName, filename, doc, now),
	}
	fail := func(msg string) (models.FileResult, models.HistoryEntry) {
		entry.Decision = models.DecisionError
		entry.Details = msg
		return models.FileResult{Filename: filename, Error: msg}, entry
	}

	tmpPath := filepath.Join(s.scratchDir, uuid.New().String()+suffix)
	if err := os.WriteFile(tmpPath, doc.Data, 0600); err != nil {
		log.Error("failed to stage upload", zap.Error(err))
		return fail(fmt.Sprintf("Failed to process file: %v", err))
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to remove temp file", zap.String("path", tmpPath), zap.Error(err))
		}
	}()

	extractor := s.extractors.For(ExtractorKindForSuffix(suffix))
	if extractor == nil {
		return fail(UnsupportedFileTypeMessage(suffix))
	}

	extraction := extractor.Extract(ctx, tmpPath)
	if extraction.Failed() {
		log.Warn("text extraction degraded", zap.String("reason", extraction.Reason))
	}

	verdict, err := s.analyzer.Analyze(ctx, req.JobDescription, extraction.PromptText(), req.Profile)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return fail(err.Error())
	}

	percent := verdict.MatchPercent
	entry.MatchPercent = &percent
	entry.Decision = verdict.Decision
	entry.Details = verdict.ResultText

	return models.FileResult{
		Filename:     filename,
		ResultText:   verdict.ResultText,
		MatchPercent: &percent,
		Decision:     verdict.Decision,
		Usage:        verdict.Usage,
	}, entry
}

// storeBlob keeps the original upload for later viewing. Failure only loses
// the file reference.
func (s *screeningService) storeBlob(ctx context.Context, log *zap.Logger, recruiter, filename string, doc models.UploadedDocument, now time.Time) *string {
	if s.blobs == nil {
		return nil
	}

	size := doc.Size
	if size == 0 {
		size = int64(len(doc.Data))
	}

	id, err := s.blobs.Put(ctx, doc.Data, BlobMetadata{
		Filename:      filename,
		ContentType:   SniffFormat(filename, doc.ContentType, doc.Data).ContentType,
		UploadDate:    now,
		RecruiterName: recruiter,
		FileSize:      size,
	})
	if err != nil {
		log.Warn("failed to store resume", zap.Error(err))
		return nil
	}
	return &id
}

func UnsupportedFileTypeMessage(suffix string) string {
	return fmt.Sprintf("Unsupported file type: %s. Only PDF, DOCX, and image files (JPG, JPEG, PNG, GIF, BMP, TIFF, WEBP) are allowed.", suffix)
}
