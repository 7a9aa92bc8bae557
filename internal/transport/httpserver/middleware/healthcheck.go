// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// NewHealthCheck serves the probes:
//
//   - GET /livez  - the process is running
//   - GET /readyz - every check passes
//
// Register it before other middleware.
func NewHealthCheck(checks ...ReadinessCheck) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if len(checks) == 0 {
				return false
			}

			ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
			defer cancel()

			for _, check := range checks {
				if check(ctx) != nil {
					return false
				}
			}
			return true
		},
	})
}
