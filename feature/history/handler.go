package history

import (
	"scale-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the run history endpoint.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/history", h.HandleHistory)
}

// HandleHistory returns the most recent reconciliation runs.
// @Summary Sync History
// @Description Returns the most recent reconciliation runs, newest first.
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum runs to return (default 20)"
// @Success 200 {array} history.Run
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	limit := c.QueryInt("limit", DefaultRecentLimit)
	runs, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		l.Error("Failed to list run history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": err.Error(),
		})
	}

	return c.JSON(runs)
}
