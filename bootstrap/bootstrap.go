// Package bootstrap builds the app for the serverless entry point, which may not
// import internal packages directly.
package bootstrap

import (
	"bitebuddy-backend/internal/config"
	"bitebuddy-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New loads configuration and creates the Fiber app. Logs stay JSON on serverless.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(level)
	}
	zerolog.DefaultContextLogger = &log.Logger

	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
