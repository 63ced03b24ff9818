package cmd

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"scale-sync/core/config"
	"scale-sync/core/database"
	"scale-sync/core/loader"
	"scale-sync/core/logger"
	"scale-sync/core/middleware/auth"
	"scale-sync/core/middleware/rayid"
	"scale-sync/core/server"
	"scale-sync/feature/history"
	"scale-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "scale-sync/docs/swagger"
)

// @title Scale Sync API
// @version 1.0
// @description Reconciles body weight measurements from Withings to Garmin Connect.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync server",
	Long:  `Starts the HTTP server, listens for Withings webhook notifications and serves the manual sync API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional, backs run history only)
		var db *gorm.DB
		if cfg.Database.Enabled {
			if conn, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed", zap.Error(err))
			} else {
				db = conn
				logg.Info("Connected to history database")
			}
		}

		// 4. Platform Clients and Token Store
		cl, err := buildClients(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to build platform clients", zap.Error(err))
		}

		// 5. Run History (optional)
		var histSvc *history.Service
		var recorder sync.Recorder
		if db != nil {
			histSvc = history.NewService(db, logg)
			if err := histSvc.Migrate(); err != nil {
				logg.Fatal("Failed to migrate history schema", zap.Error(err))
			}
			recorder = histSvc
		}

		// 6. Sync Engine
		syncSvc := sync.NewService(cl.withings, cl.garmin, sync.NewMatcher(), recorder, logg)

		// 7. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 2.6 Health Check (Public, used by load balancers)
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 3. Auth (Protect API)
		// The webhook endpoint stays open: Withings cannot send an API
		// key, and the handler treats every notification as untrusted
		// input anyway.
		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" ||
					strings.HasPrefix(c.Path(), server.WebhookPath)
			},
		}))

		// 4. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(sync.NewFeature(syncSvc, logg))
		mgr.Register(history.NewFeature(histSvc, logg))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
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
