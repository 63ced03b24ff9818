package history

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires run history into the application loader.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the history feature. service may be nil when no
// database is configured; the feature then reports itself disabled.
func NewFeature(service *Service, logger *zap.Logger) *Feature {
	f := &Feature{service: service}
	if service != nil {
		f.handler = NewHandler(service, logger)
	}
	return f
}

// Name returns the feature identifier.
func (f *Feature) Name() string { return "history" }

// IsEnabled reports whether a database backs the feature.
func (f *Feature) IsEnabled() bool { return f.service != nil }

// Load registers the history routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
