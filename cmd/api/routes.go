package main

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"prohire/resume-screener/internal/handlers"
)

type routeHandlers struct {
	screening *handlers.ScreeningHandler
	resumes   *handlers.ResumeHandler
	reports   *handlers.ReportHandler
}

var backendEndpoints = []string{
	"POST /backend/analyze-resumes",
	"GET /backend/download-resume/:file_id",
	"GET /backend/view-resume/:file_id",
	"GET /backend/mis-summary",
	"GET /backend/daily-reports",
	"GET /backend/previous-day-reports",
	"GET /backend/reports/:date_type",
}

// registerRoutes mounts the API. Every /backend route requires a recruiter token.
func registerRoutes(app *fiber.App, h routeHandlers, requireRecruiter fiber.Handler) {
	api := app.Group("/backend", requireRecruiter)

	api.Post("/analyze-resumes", h.screening.HandleAnalyze)
	api.Get("/download-resume/:file_id", h.resumes.HandleDownload)
	api.Get("/view-resume/:file_id", h.resumes.HandleView)

	api.Get("/mis-summary", h.reports.HandleSummary)
	api.Get("/daily-reports", h.reports.HandleDaily)
	api.Get("/previous-day-reports", h.reports.HandlePreviousDay)
	api.Get("/reports/:date_type", h.reports.HandleByDate)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Resume Screening API",
			"version":   "1.0.0",
			"endpoints": backendEndpoints,
		})
	})
}
