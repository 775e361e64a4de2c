package health

import (
	"code-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for health checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/health")
	group.Get("/", h.HandleHealth)
	group.Get("/storage", h.HandleStorage)
	group.Get("/database", h.HandleDatabase)
}

// HandleHealth runs all checks.
// @Summary Health Check
// @Description Reports the export bucket and the run history database.
// @Tags health
// @Produce json
// @Success 200 {object} Report
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	report := h.service.Check(c.UserContext())
	if report.Status != StatusOK {
		logger.WithRayID(h.service.logger, c).Warn("Health degraded",
			zap.String("storage", report.Storage.Status),
			zap.String("database", report.Database.Status))
	}
	return c.JSON(report)
}

// HandleStorage checks and optionally fixes the export bucket.
// @Summary Check Storage
// @Description Checks that the bucket exists. With fix=true the bucket and the export prefix are created.
// @Tags health
// @Produce json
// @Param fix query boolean false "Create missing bucket and prefix"
// @Success 200 {object} StorageReport
// @Failure 500 {object} StorageReport
// @Router /health/storage [get]
func (h *Handler) HandleStorage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.QueryBool("fix") {
		l.Info("Attempting to fix storage")
		report, err := h.service.FixStorage(c.UserContext())
		if err != nil {
			l.Error("Storage fix failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(report)
		}
		return c.JSON(report)
	}

	report := h.service.CheckStorage(c.UserContext())
	if report.Status == StatusError {
		l.Error("Storage check failed", zap.String("error", report.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}

// HandleDatabase checks the run history database.
// @Summary Check Database
// @Tags health
// @Produce json
// @Success 200 {object} DatabaseReport
// @Failure 500 {object} DatabaseReport
// @Router /health/database [get]
func (h *Handler) HandleDatabase(c *fiber.Ctx) error {
	report := h.service.CheckDatabase(c.UserContext())
	if report.Status == StatusError {
		logger.WithRayID(h.service.logger, c).Error("Database check failed", zap.String("error", report.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}
