package handlers

import (
	"encoding/base64"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/models"
	"prohire/resume-screener/internal/services"
)

const fileNotFoundDetail = "File not found"

type ResumeHandler struct {
	blobs services.BlobStore
	log   *zap.Logger
}

func NewResumeHandler(blobs services.BlobStore, log *zap.Logger) *ResumeHandler {
	return &ResumeHandler{blobs: blobs, log: log}
}

func (h *ResumeHandler) HandleDownload(c *fiber.Ctx) error {
	blob, ok := h.fetch(c)
	if !ok {
		return detail(c, fiber.StatusNotFound, fileNotFoundDetail)
	}

	c.Attachment(blob.Metadata.Filename)
	c.Set(fiber.HeaderContentType, resolvedContentType(blob))
	return c.Status(fiber.StatusOK).Send(blob.Data)
}

func (h *ResumeHandler) HandleView(c *fiber.Ctx) error {
	blob, ok := h.fetch(c)
	if !ok {
		return detail(c, fiber.StatusNotFound, fileNotFoundDetail)
	}

	return c.Status(fiber.StatusOK).JSON(models.ViewResumeResponse{
		Filename:    blob.Metadata.Filename,
		ContentType: resolvedContentType(blob),
		Size:        len(blob.Data),
		Content:     base64.StdEncoding.EncodeToString(blob.Data),
	})
}

// fetch loads the blob named by :file_id. Any failure reads as not found.
func (h *ResumeHandler) fetch(c *fiber.Ctx) (*services.Blob, bool) {
	id := c.Params("file_id")
	blob, err := h.blobs.Get(c.UserContext(), id)
	if err != nil {
		if !errors.Is(err, services.ErrBlobNotFound) {
			h.log.Error("failed to fetch resume", zap.String("file_id", id), zap.Error(err))
		}
		return nil, false
	}
	if blob.Metadata.Filename == "" {
		blob.Metadata.Filename = "resume"
	}
	return blob, true
}

func resolvedContentType(blob *services.Blob) string {
	return services.SniffFormat(blob.Metadata.Filename, blob.Metadata.ContentType, blob.Data).ContentType
}
