package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/meinhoongagan/roadside-assist/cron"
	"github.com/meinhoongagan/roadside-assist/db"
	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/metrics"
	"github.com/meinhoongagan/roadside-assist/middleware"
	"github.com/meinhoongagan/roadside-assist/routes"
	"github.com/meinhoongagan/roadside-assist/services"
	"github.com/meinhoongagan/roadside-assist/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := db.Migrate(e.conn); err != nil {
			return err
		}

		uploader, err := storage.New(e.cfg)
		if err != nil {
			return err
		}
		e.connectCache(ctx)

		app := newApp(ctx, e, uploader)

		scheduler, err := cron.StartCronJobs(e.conn)
		if err != nil {
			return err
		}
		defer scheduler.Stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", "port", e.cfg.Port, "env", e.cfg.Env)
			errCh <- app.Listen(":" + e.cfg.Port)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	},
}

// newApp builds the fiber app with every route mounted. Background work
// tied to the app stops when ctx is cancelled.
func newApp(ctx context.Context, e *env, uploader storage.Uploader) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "roadside-assist",
		BodyLimit: 20 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     e.cfg.CORSOrigin,
		AllowCredentials: e.cfg.CORSOrigin != "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Roadside assistance API")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	cache := cacheOrNil(e.cache)
	mailer := e.mailer()
	auth := services.NewAuthService(e.conn, mailer, services.AuthConfig{
		Secret:    []byte(e.cfg.JWTSecret),
		TokenTTL:  e.cfg.JWTTTL,
		ClientURL: e.cfg.ClientURL,
	})
	routes.Setup(app, routes.Deps{
		Ctx:           ctx,
		JWTSecret:     []byte(e.cfg.JWTSecret),
		SecureCookie:  e.cfg.IsProduction(),
		AuthRateRPS:   e.cfg.AuthRateLimitRPS,
		AuthRateBurst: e.cfg.AuthRateLimitBurst,
		Catalog:       e.catalog,
		Auth:          auth,
		Addresses:     services.NewAddressService(e.conn),
		Vehicles:      services.NewVehicleService(e.conn),
		Applications:  e.applications(uploader),
		Directory:     services.NewDirectoryService(e.conn, cache, e.cfg.DirectoryTTL),
		Requests:      services.NewServiceRequestService(e.conn, e.catalog, mailer),
		Bookings:      services.NewBookingService(e.conn, e.catalog),
	})
	return app
}
