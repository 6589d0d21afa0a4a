package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dormdesk/dormdesk-api/internal/models"
	"github.com/dormdesk/dormdesk-api/internal/service"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
	"github.com/dormdesk/dormdesk-api/pkg/response"
)

type analyticsService interface {
	CategoryDensity(ctx context.Context, filter models.CategoryDensityFilter) ([]models.CategoryDensity, bool, error)
	HostelHeatmap(ctx context.Context) ([]models.HeatmapCell, bool, error)
	StatusDistribution(ctx context.Context) (*models.StatusDistribution, bool, error)
	Summary(ctx context.Context) (*models.AnalyticsSummary, bool, error)
	LostItemStats(ctx context.Context) ([]service.LostItemStats, bool, error)
}

// AnalyticsHandler exposes the dashboard read models. Responses carry a
// cache_hit flag in meta.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// CategoryDensity handles GET /analytics/categories.
func (h *AnalyticsHandler) CategoryDensity(c *gin.Context) {
	filter := models.CategoryDensityFilter{HostelID: c.Query("hostel")}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be RFC3339"))
			return
		}
		fromUTC := from.UTC()
		filter.CreatedFrom = &fromUTC
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be RFC3339"))
			return
		}
		toUTC := to.UTC()
		filter.CreatedTo = &toUTC
	}

	densities, cacheHit, err := h.service.CategoryDensity(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, densities, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// HostelHeatmap handles GET /analytics/hostel-heatmap.
func (h *AnalyticsHandler) HostelHeatmap(c *gin.Context) {
	cells, cacheHit, err := h.service.HostelHeatmap(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cells, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// StatusDistribution handles GET /analytics/status-distribution.
func (h *AnalyticsHandler) StatusDistribution(c *gin.Context) {
	dist, cacheHit, err := h.service.StatusDistribution(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// Summary handles GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// LostItemStats handles GET /analytics/lost-items.
func (h *AnalyticsHandler) LostItemStats(c *gin.Context) {
	stats, cacheHit, err := h.service.LostItemStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"cache_hit": cacheHit})
}
