package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/middleware"
	"prohire/resume-screener/internal/models"
	"prohire/resume-screener/internal/services"
)

const (
	missingInputDetail   = "Missing job_description, hiring_type, level, or files"
	invalidProfileDetail = "Invalid hiring or level choice provided."
	historyWarning       = "Results were computed but could not be saved to history."
)

type ScreeningHandler struct {
	screening   services.ScreeningService
	validate    *validator.Validate
	maxFileSize int64
	log         *zap.Logger
}

func NewScreeningHandler(
	screening services.ScreeningService,
	maxFileSize int64,
	log *zap.Logger,
) *ScreeningHandler {
	return &ScreeningHandler{
		screening:   screening,
		validate:    validator.New(),
		maxFileSize: maxFileSize,
		log:         log,
	}
}

func (h *ScreeningHandler) HandleAnalyze(c *fiber.Ctx) error {
	recruiter, ok := middleware.RecruiterFrom(c)
	if !ok {
		return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, missingInputDetail)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return detail(c, fiber.StatusBadRequest, missingInputDetail)
	}
	fileHeaders := form.File["files"]

	if err := h.validate.Struct(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, validationDetail(err))
	}
	if len(fileHeaders) == 0 {
		return detail(c, fiber.StatusBadRequest, missingInputDetail)
	}

	docs := make([]models.UploadedDocument, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
			return detail(c, fiber.StatusBadRequest,
				fmt.Sprintf("File %s too large. Max size: %d bytes", fh.Filename, h.maxFileSize))
		}

		doc, err := readUpload(fh)
		if err != nil {
			h.log.Error("failed to read upload", zap.String("file", fh.Filename), zap.Error(err))
			return detail(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read file %s", fh.Filename))
		}
		docs = append(docs, doc)
	}

	outcome, err := h.screening.ProcessBatch(c.UserContext(), services.BatchRequest{
		JobDescription: req.JobDescription,
		Profile:        services.HiringProfile{HiringType: req.HiringType, Level: req.Level},
		RecruiterName:  recruiter,
		Files:          docs,
	})
	switch {
	case errors.Is(err, services.ErrInvalidProfile):
		return detail(c, fiber.StatusBadRequest, invalidProfileDetail)
	case errors.Is(err, services.ErrInvalidBatch):
		return detail(c, fiber.StatusBadRequest, missingInputDetail)
	case err != nil:
		h.log.Error("screening batch failed", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "Failed to analyze resumes")
	}

	resp := models.AnalyzeResponse{
		Results:      outcome.Results,
		HistorySaved: outcome.HistorySaved,
	}
	if !outcome.HistorySaved {
		resp.Warning = historyWarning
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// validationDetail maps a failed oneof rule to the profile message and
// anything else to the missing-input message.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "oneof" {
				return invalidProfileDetail
			}
		}
	}
	return missingInputDetail
}

func readUpload(fh *multipart.FileHeader) (models.UploadedDocument, error) {
	f, err := fh.Open()
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read upload: %w", err)
	}

	return models.UploadedDocument{
		Filename:    fh.Filename,
		Data:        data,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
	}, nil
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}
