package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/analytics"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/response"
)

// DashboardHandler 负责处理仪表板统计和活动上报请求。
type DashboardHandler struct {
	dashboardService service.DashboardService
	activityService  service.ActivityService
}

// NewDashboardHandler 创建一个新的 DashboardHandler 实例。
func NewDashboardHandler(dashboardService service.DashboardService, activityService service.ActivityService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, activityService: activityService}
}

// Stats 返回全站统计。
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取统计数据成功", stats)
}

// UserStats 返回当前用户的个人统计。
func (h *DashboardHandler) UserStats(c *gin.Context) {
	stats, err := h.dashboardService.UserStats(currentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取用户统计成功", stats)
}

// Trends 返回最近 days 天的趋势，默认 30 天。
func (h *DashboardHandler) Trends(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("天数必须在%d-%d之间", analytics.MinTrendDays, analytics.MaxTrendDays))
		return
	}
	report, err := h.dashboardService.Trends(days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取趋势数据成功", report)
}

// RecordActivityRequest 定义了活动上报 API 的请求体结构。
type RecordActivityRequest struct {
	ActivityType string `json:"activity_type" binding:"required,max=50"`
	ActivityData string `json:"activity_data"`
}

// RecordActivity 上报一条当前用户的活动。
func (h *DashboardHandler) RecordActivity(c *gin.Context) {
	var req RecordActivityRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.activityService.Record(c.Request.Context(), currentUser(c).ID, req.ActivityType, req.ActivityData, clientMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "活动记录成功", nil)
}
