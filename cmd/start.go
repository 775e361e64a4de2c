package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"code-reconciler/core/config"
	"code-reconciler/core/database"
	"code-reconciler/core/loader"
	"code-reconciler/core/logger"
	"code-reconciler/core/middleware/auth"
	"code-reconciler/core/middleware/rayid"
	"code-reconciler/core/storage"

	"code-reconciler/feature/health"
	"code-reconciler/feature/reconciliation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Code Reconciler API
// @version 1.0
// @description Reconciles client HCPCS billing sheets against a master sheet.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciler server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid server configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// The run history is optional; the engine works without it.
		var db *gorm.DB
		if cfg.Database.Enabled {
			if conn, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed, run history disabled", zap.Error(err))
			} else {
				db = conn
				logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
			}
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager()
		mgr.Register(health.NewFeature(store, cfg.Storage, cfg.Reconcile.ExportPrefix, logg, db, health.Schema{
			Table:   reconciliation.TableName,
			Columns: reconciliation.RequiredColumns(),
		}))
		mgr.Register(reconciliation.NewFeature(store, cfg.Storage.Bucket, logg, db, cfg.Reconcile))

		// A panicking handler fails its request, not the server.
		app.Use(recover.New())

		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/health"}}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
