package healthcheck

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// LivenessPath answers as long as the process serves HTTP.
	LivenessPath = "/health"
	// ReadinessPath answers 200 only when every dependency check passes.
	ReadinessPath = "/ready"
)

// Checker is a dependency probed by the readiness endpoint.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthCheck is the health check handler.
type HealthCheck struct {
	checkers []Checker
	timeout  time.Duration
}

// New creates a HealthCheck that gives each checker at most timeout to answer.
func New(timeout time.Duration, checkers ...Checker) *HealthCheck {
	return &HealthCheck{
		checkers: checkers,
		timeout:  timeout,
	}
}

// Register mounts the liveness and readiness endpoints on r.
func (hc *HealthCheck) Register(r fiber.Router) {
	r.Get(LivenessPath, hc.Liveness)
	r.Get(ReadinessPath, hc.Readiness)
}

// Liveness serves GET /health
func (hc *HealthCheck) Liveness(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("ok")
}

// Readiness serves GET /ready
func (hc *HealthCheck) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), hc.timeout)
	defer cancel()

	status := fiber.StatusOK
	checks := make(map[string]string, len(hc.checkers))

	for _, checker := range hc.checkers {
		if err := checker.Check(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			checks[checker.Name()] = err.Error()
			continue
		}
		checks[checker.Name()] = "ok"
	}

	return c.Status(status).JSON(fiber.Map{"checks": checks})
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodGet && (c.Path() == LivenessPath || c.Path() == ReadinessPath)
}
