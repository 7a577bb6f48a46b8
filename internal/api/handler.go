package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/safecoastpro/coastwatch/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	forecasts *services.ForecastService
	history   *services.HistoryService
	catalogs  *services.CatalogCache
	logger    *zap.Logger
}

func NewHandler(forecasts *services.ForecastService, history *services.HistoryService, catalogs *services.CatalogCache, logger *zap.Logger) *Handler {
	return &Handler{
		forecasts: forecasts,
		history:   history,
		catalogs:  catalogs,
		logger:    logger,
	}
}

// GetSites handles GET /api/v1/sites
func (h *Handler) GetSites(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"run_date": h.forecasts.RunDate().Format("2006-01-02"),
		"sites":    h.forecasts.Sites(),
	})
}

// GetSite handles GET /api/v1/sites/:id
func (h *Handler) GetSite(c *fiber.Ctx) error {
	site, ok := h.forecasts.Site(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown site",
			"site":  c.Params("id"),
		})
	}
	return c.JSON(site)
}

// RefreshForecasts handles POST /api/v1/forecast/refresh. The date
// query selects the forecast run date; it defaults to today.
func (h *Handler) RefreshForecasts(c *fiber.Ctx) error {
	runDate := time.Now().UTC().Truncate(24 * time.Hour)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Date must be formatted YYYY-MM-DD",
			})
		}
		runDate = parsed
	}

	h.logger.Info("Manual forecast refresh requested", zap.Time("run_date", runDate))

	if err := h.forecasts.Refresh(c.Context(), runDate); err != nil {
		h.logger.Error("Forecast refresh failed",
			zap.Time("run_date", runDate),
			zap.Error(err))

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to refresh forecast data",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"run_date": runDate.Format("2006-01-02"),
		"sites":    h.forecasts.Sites(),
	})
}

// GetJointProbability handles GET /api/v1/history/joint
func (h *Handler) GetJointProbability(c *fiber.Ctx) error {
	siteID := c.Query("site")
	if siteID == "" {
		return missingSiteParam(c)
	}
	return c.JSON(h.history.JointProbability(c.Context(), siteID))
}

// GetSeasonal handles GET /api/v1/history/seasonal
func (h *Handler) GetSeasonal(c *fiber.Ctx) error {
	siteID := c.Query("site")
	if siteID == "" {
		return missingSiteParam(c)
	}
	return c.JSON(h.history.Seasonal(c.Context(), siteID))
}

// GetInterannual handles GET /api/v1/history/interannual
func (h *Handler) GetInterannual(c *fiber.Ctx) error {
	siteID := c.Query("site")
	if siteID == "" {
		return missingSiteParam(c)
	}
	return c.JSON(h.history.Interannual(c.Context(), siteID))
}

// GetEventComponents handles GET /api/v1/history/components. An unknown
// event id is not an error; the empty view carries a warning for the
// rendering layer.
func (h *Handler) GetEventComponents(c *fiber.Ctx) error {
	siteID := c.Query("site")
	if siteID == "" {
		return missingSiteParam(c)
	}
	eventID := c.Query("event")
	if eventID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Event parameter is required",
		})
	}

	view := h.history.Components(c.Context(), siteID, eventID)
	if !view.Found {
		return c.JSON(fiber.Map{
			"components": view,
			"warning":    "No historical data for the selected event",
		})
	}
	return c.JSON(fiber.Map{"components": view})
}

// GetVariability handles GET /api/v1/variability
func (h *Handler) GetVariability(c *fiber.Ctx) error {
	siteID := c.Query("site")
	if siteID == "" {
		return missingSiteParam(c)
	}

	analysis, err := h.forecasts.Variability(c.Context(), siteID)
	if err != nil {
		h.logger.Warn("Variability analysis unavailable",
			zap.String("site", siteID),
			zap.Error(err))

		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Variability analysis unavailable",
			"details": err.Error(),
		})
	}
	return c.JSON(analysis)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"timestamp":  time.Now(),
		"uptime":     time.Since(startTime).String(),
		"last_fetch": h.forecasts.LastRefresh(),
		"stats": fiber.Map{
			"forecasts": h.forecasts.Stats(),
			"catalogs":  h.catalogs.Stats(),
		},
	})
}

func missingSiteParam(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Site parameter is required",
	})
}

var startTime = time.Now()
