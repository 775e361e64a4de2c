package reconciliation

import (
	"code-reconciler/core/reconcile"
	"code-reconciler/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	history *History
}

// NewFeature creates a new reconciliation feature. A nil db disables the run history.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg reconcile.Config) *Feature {
	var history *History
	if db != nil {
		history = NewHistory(db)
	}
	svc := NewService(client, bucket, logger, history, cfg)
	return &Feature{service: svc, handler: NewHandler(svc), history: history}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reconciliation"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load migrates the history table and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.history != nil {
		if err := f.history.Migrate(); err != nil {
			return err
		}
	}
	f.handler.RegisterRoutes(app)
	return nil
}
