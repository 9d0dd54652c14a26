package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prohire/resume-screener/internal/services"
)

const invalidDateDetail = "Invalid date format. Use 'today', 'yesterday', or YYYY-MM-DD"

type ReportHandler struct {
	reports services.ReportService
	log     *zap.Logger
}

func NewReportHandler(reports services.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

func (h *ReportHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.reports.Summary(c.UserContext())
	if err != nil {
		h.log.Error("failed to build recruiter summary", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "Failed to load summary")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"summary": summary})
}

func (h *ReportHandler) HandleDaily(c *fiber.Ctx) error {
	return h.report(c, "today", false)
}

func (h *ReportHandler) HandlePreviousDay(c *fiber.Ctx) error {
	return h.report(c, "yesterday", false)
}

func (h *ReportHandler) HandleByDate(c *fiber.Ctx) error {
	return h.report(c, c.Params("date_type"), true)
}

func (h *ReportHandler) report(c *fiber.Ctx, dateType string, withDateType bool) error {
	report, err := h.reports.Report(c.UserContext(), dateType)
	if errors.Is(err, services.ErrInvalidDateType) {
		return detail(c, fiber.StatusBadRequest, invalidDateDetail)
	}
	if err != nil {
		h.log.Error("failed to build report", zap.String("date_type", dateType), zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "Failed to load report")
	}

	if !withDateType {
		report.DateType = ""
	}
	return c.Status(fiber.StatusOK).JSON(report)
}
