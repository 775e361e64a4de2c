package health

import (
	"code-reconciler/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates a new health feature.
func NewFeature(client storage.Client, cfg storage.Config, prefix string, logger *zap.Logger, db *gorm.DB, schema Schema) *Feature {
	return &Feature{handler: NewHandler(NewService(client, cfg, prefix, logger, db, schema))}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "health"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
