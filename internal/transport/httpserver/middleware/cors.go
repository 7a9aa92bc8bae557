package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows pages of the static site to call the filter API and read
// the synchronized page URL.
func CORS(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,HEAD,OPTIONS",
		ExposeHeaders: "X-Replace-Url",
	})
}
