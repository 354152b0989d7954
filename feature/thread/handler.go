package thread

import (
	"threadwatch/core/logger"
	"threadwatch/feature/thread/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the read-only status routes for watch mode.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// RegisterRoutes registers the thread routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/thread")
	group.Get("/status", h.HandleStatus)
	group.Get("/state", h.HandleState)
	group.Get("/runs", h.HandleRuns)
}

// HandleStatus returns the outcome of the most recent run in this process.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	last := h.service.Latest()
	if last == nil {
		return c.JSON(fiber.Map{"status": "waiting", "detail": "no run has completed yet"})
	}
	return c.JSON(fiber.Map{
		"status":         string(last.Outcome),
		"first_run":      last.FirstRun,
		"state_degraded": last.StateDegraded,
		"rejections":     len(last.Rejections),
		"diff":           diffSummary(last),
		"metadata":       last.Metadata,
	})
}

// HandleState returns a summary of the persisted state file.
func (h *Handler) HandleState(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	st, report, err := h.service.Store().Load()
	if err != nil {
		l.Error("failed to load state", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"records":   len(st),
		"source":    report.Source,
		"first_run": report.FirstRun,
		"degraded":  report.Degraded,
	})
}

// HandleRuns returns recent archived runs, when the archive is enabled.
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	recorder := h.service.Recorder()
	if recorder == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "run archive is disabled"})
	}

	l := logger.WithRayID(h.logger, c)
	runs, err := recorder.RecentRuns(c.QueryInt("limit", 20))
	if err != nil {
		l.Error("failed to query archive", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": runs})
}

func diffSummary(res *models.RunResult) fiber.Map {
	if res.Diff == nil {
		return nil
	}
	return fiber.Map{
		"new":     res.Diff.Summary.NewCount,
		"edited":  res.Diff.Summary.EditedCount,
		"deleted": res.Diff.Summary.DeletedCount,
	}
}
