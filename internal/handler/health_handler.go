package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler 提供服务横幅和健康检查。
type HealthHandler struct {
	name    string
	version string
}

// NewHealthHandler 创建一个新的 HealthHandler 实例。
func NewHealthHandler(name, version string) *HealthHandler {
	return &HealthHandler{name: name, version: version}
}

// Root 返回服务横幅。
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "欢迎使用 " + h.name,
		"version": h.version,
		"docs":    "/api/v1",
		"health":  "/health",
	})
}

// Health 返回服务状态。
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
