package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *Handler, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD",
	}))

	// Custom logger middleware
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// Prometheus endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API v1 routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", handler.GetHealth)

	// Sites and forecast
	api.Get("/sites", handler.GetSites)
	api.Get("/sites/:id", handler.GetSite)
	api.Post("/forecast/refresh", handler.RefreshForecasts)

	// Historical analytics
	history := api.Group("/history")
	history.Get("/joint", handler.GetJointProbability)
	history.Get("/seasonal", handler.GetSeasonal)
	history.Get("/interannual", handler.GetInterannual)
	history.Get("/components", handler.GetEventComponents)

	// Variability pass-through
	api.Get("/variability", handler.GetVariability)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})

	log.Info("Routes registered")
}
