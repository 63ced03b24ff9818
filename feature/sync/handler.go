package sync

import (
	"time"

	"scale-sync/core/logger"
	"scale-sync/core/server"
	"scale-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// applicationWeight is the Withings notification category for weight
// measurements (appli=1). Other categories are acknowledged and ignored.
const applicationWeight = 1

// Handler handles HTTP requests that trigger reconciliation runs.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the webhook and manual sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	// Withings probes the endpoint with HEAD (health check) and GET
	// (subscription verification) before delivering POST notifications.
	app.Head(server.WebhookPath, h.HandleWebhookVerify)
	app.Get(server.WebhookPath, h.HandleWebhookVerify)
	app.Post(server.WebhookPath, h.HandleWebhookNotify)

	group := app.Group("/sync")
	group.Post("/manual", h.HandleManualSync)
}

// HandleWebhookVerify acknowledges Withings endpoint verification.
// @Summary Webhook Verification
// @Description Acknowledges the Withings HEAD/GET endpoint probes sent during webhook subscription.
// @Tags webhook
// @Success 200 {string} string ""
// @Router /webhook/withings [get]
func (h *Handler) HandleWebhookVerify(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Received webhook verification probe", zap.String("method", c.Method()))
	return c.SendStatus(fiber.StatusOK)
}

// webhookNotification mirrors the JSON variant of a Withings
// notification. The form-encoded variant is parsed manually since all
// fields arrive as strings.
type webhookNotification struct {
	UserID    string `json:"userid"`
	Appli     int    `json:"appli"`
	StartDate int64  `json:"startdate"`
	EndDate   int64  `json:"enddate"`
}

// HandleWebhookNotify processes a Withings measurement notification.
// @Summary Withings Webhook
// @Description Receives a Withings measurement notification (form-encoded) and triggers a reconciliation run for the notified time range.
// @Tags webhook
// @Accept x-www-form-urlencoded
// @Produce json
// @Param appli formData int true "Notification category (1 = weight)"
// @Param userid formData string false "Withings user ID"
// @Param startdate formData int false "Range start (unix seconds)"
// @Param enddate formData int false "Range end (unix seconds)"
// @Success 200 {object} map[string]interface{} "Sync result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /webhook/withings [post]
func (h *Handler) HandleWebhookNotify(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	// Withings sends form-encoded data; fall back to JSON for manual
	// testing convenience.
	var n webhookNotification
	if raw := c.FormValue("appli"); raw != "" {
		n.UserID = c.FormValue("userid")
		n.Appli = utils.ToInt(raw)
		n.StartDate = utils.ToInt64(c.FormValue("startdate"))
		n.EndDate = utils.ToInt64(c.FormValue("enddate"))
	} else if err := c.BodyParser(&n); err != nil {
		l.Warn("Unparseable webhook payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "unparseable notification payload",
		})
	}

	if n.Appli != applicationWeight {
		l.Info("Ignoring non-weight notification", zap.Int("appli", n.Appli))
		return c.JSON(fiber.Map{"status": "ignored", "reason": "not a weight measurement"})
	}

	l.Info("Processing weight notification",
		zap.String("userid", n.UserID),
		zap.Int64("startdate", n.StartDate),
		zap.Int64("enddate", n.EndDate))

	var w Window
	if n.StartDate > 0 && n.EndDate > 0 {
		w = Window{
			Start: time.Unix(n.StartDate, 0).UTC(),
			End:   time.Unix(n.EndDate, 0).UTC(),
		}
	}

	result, err := h.service.Sync(c.Context(), "webhook", w)
	if err != nil {
		l.Error("Webhook sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"synced":  result.Synced,
		"skipped": result.Skipped,
		"message": result.Message,
	})
}

// HandleManualSync triggers a one-off reconciliation run.
// @Summary Manual Sync
// @Description Triggers a reconciliation run for the last N days.
// @Tags sync
// @Produce json
// @Param days query int false "Days to look back (default 7)"
// @Success 200 {object} map[string]interface{} "Sync result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/manual [post]
func (h *Handler) HandleManualSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	days := c.QueryInt("days", DefaultWindowDays)
	if days <= 0 {
		days = DefaultWindowDays
	}

	l.Info("Manual sync triggered", zap.Int("days", days))

	end := time.Now().UTC()
	w := Window{Start: end.AddDate(0, 0, -days), End: end}

	result, err := h.service.Sync(c.Context(), "manual", w)
	if err != nil {
		l.Error("Manual sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"synced":  result.Synced,
		"skipped": result.Skipped,
		"message": result.Message,
	})
}
