package thread

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the thread status routes into the loader system.
type Feature struct {
	service *Service
	logger  *zap.Logger
}

// NewFeature creates the thread feature for registration with the loader.
func NewFeature(service *Service, l *zap.Logger) *Feature {
	return &Feature{service: service, logger: l}
}

// Name identifies the feature.
func (f *Feature) Name() string { return "thread" }

// IsEnabled reports whether the feature should be loaded. The status surface
// is meaningless without a service, otherwise it is always on.
func (f *Feature) IsEnabled() bool { return f.service != nil }

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service, f.logger).RegisterRoutes(app)
	return nil
}
