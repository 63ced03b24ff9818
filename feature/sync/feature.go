package sync

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the sync service into the application loader.
type Feature struct {
	handler *Handler
}

// NewFeature creates the sync feature around an assembled service.
func NewFeature(service *Service, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(service, logger)}
}

// Name returns the feature identifier.
func (f *Feature) Name() string { return "sync" }

// IsEnabled always reports true; syncing is the application's purpose.
func (f *Feature) IsEnabled() bool { return true }

// Load registers the webhook and manual sync routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
