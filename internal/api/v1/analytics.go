package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/revlytics/revlytics/internal/api/dto"
	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/logger"
	"github.com/revlytics/revlytics/internal/service"
	"github.com/revlytics/revlytics/internal/types"
)

type AnalyticsHandler struct {
	dashboardService service.DashboardService
	seriesService    service.SeriesService
	logger           *logger.Logger
}

func NewAnalyticsHandler(
	dashboardService service.DashboardService,
	seriesService service.SeriesService,
	logger *logger.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		dashboardService: dashboardService,
		seriesService:    seriesService,
		logger:           logger,
	}
}

// GetSubscriptionMetrics handles GET /v1/analytics/subscriptions/metrics
func (h *AnalyticsHandler) GetSubscriptionMetrics(c *gin.Context) {
	startTime, endTime, err := parseTimeRange(c)
	if err != nil {
		c.Error(err)
		return
	}

	req := &dto.SubscriptionMetricsRequest{
		CustomerID: c.Query("customer_id"),
		StartTime:  startTime,
		EndTime:    endTime,
	}

	response, err := h.dashboardService.GetSubscriptionMetrics(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to get subscription metrics", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListSubscriptionStates handles GET /v1/analytics/subscriptions
func (h *AnalyticsHandler) ListSubscriptionStates(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("active_only must be a boolean").
				Mark(ierr.ErrValidation))
			return
		}
		activeOnly = parsed
	}

	req := &dto.SubscriptionStatesRequest{
		CustomerID: c.Query("customer_id"),
		ActiveOnly: activeOnly,
	}

	response, err := h.dashboardService.ListSubscriptionStates(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to list subscription states", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSeries handles GET /v1/analytics/series
func (h *AnalyticsHandler) GetSeries(c *gin.Context) {
	startTime, endTime, err := parseTimeRange(c)
	if err != nil {
		c.Error(err)
		return
	}

	req := &dto.SeriesRequest{
		Category:   types.SeriesCategory(c.Query("category")),
		StartTime:  startTime,
		EndTime:    endTime,
		WindowSize: types.WindowSize(c.Query("window_size")),
		Timezone:   c.Query("timezone"),
	}

	response, err := h.seriesService.GetSeries(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to get series", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetDashboard handles GET /v1/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	startTime, endTime, err := parseTimeRange(c)
	if err != nil {
		c.Error(err)
		return
	}

	req := &dto.DashboardRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Timezone:  c.Query("timezone"),
	}

	response, err := h.dashboardService.GetDashboard(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to get dashboard", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// parseTimeRange reads the required start_time and end_time RFC3339 query params
func parseTimeRange(c *gin.Context) (time.Time, time.Time, error) {
	startTime, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		return time.Time{}, time.Time{}, ierr.WithError(err).
			WithHint("start_time must be a valid RFC3339 timestamp").
			Mark(ierr.ErrValidation)
	}

	endTime, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		return time.Time{}, time.Time{}, ierr.WithError(err).
			WithHint("end_time must be a valid RFC3339 timestamp").
			Mark(ierr.ErrValidation)
	}

	return startTime, endTime, nil
}
