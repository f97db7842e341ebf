package handler

import (
	"net/http"

	"worksync/internal/middleware"
	"worksync/internal/model"
	"worksync/internal/service"
	"worksync/pkg/response"
	"worksync/pkg/worksync"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/analytics", middleware.RequireRole(model.RoleAdmin), h.GetAnalytics)
}

// GetAnalytics returns the dashboard aggregate
// @Summary      Dashboard analytics
// @Description  Request and suggestion figures for the last week, month (default), quarter or year
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Param        range  query     string  false  "week | month | quarter | year"
// @Success      200    {object}  response.Response{data=worksync.Analytics}
// @Failure      400    {object}  response.Response
// @Router       /analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	rng, err := worksync.ParseTimeRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	summary, err := h.analyticsService.Summary(c.Request.Context(), rng)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
