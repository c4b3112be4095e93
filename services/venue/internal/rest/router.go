package rest

import (
	"time"

	"github.com/dset/Cloud-Market/pkg/httplib/healthcheck"
	"github.com/dset/Cloud-Market/pkg/logger"
	"github.com/gofiber/fiber/v2"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// APIPrefix is the mount point of the authenticated API.
const APIPrefix = "/api/v1"

// RouterConfig tunes the fiber application.
type RouterConfig struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRouter builds the fiber application: unauthenticated health probes at
// the root and the venue API under APIPrefix.
func NewRouter(cfg RouterConfig, log logger.Interface, auth *Authenticator, health *healthcheck.HealthCheck, handler *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          ErrorHandler(log),
		UnescapePath:          true,
		DisableStartupMessage: true,
	})

	app.Use(
		fiberRecover.New(),
		RequestID(),
		Logging(log),
	)

	if health != nil {
		health.Register(app)
	}

	api := app.Group(APIPrefix, auth.Middleware())
	handler.Register(api)

	return app
}
