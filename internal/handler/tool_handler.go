package handler

import (
	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/response"
)

// ToolHandler 负责处理 AI 工具目录和调用请求。
type ToolHandler struct {
	toolService service.ToolService
}

// NewToolHandler 创建一个新的 ToolHandler 实例。
func NewToolHandler(toolService service.ToolService) *ToolHandler {
	return &ToolHandler{toolService: toolService}
}

// List 按分类分页返回公开工具。
func (h *ToolHandler) List(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	tools, err := h.toolService.List(c.Query("category"), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取工具列表成功", tools)
}

func (h *ToolHandler) Categories(c *gin.Context) {
	categories, err := h.toolService.Categories()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取工具分类成功", categories)
}

// Hot 返回使用次数最多的工具。
func (h *ToolHandler) Hot(c *gin.Context) {
	tools, err := h.toolService.Hot()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取热门工具成功", tools)
}

func (h *ToolHandler) Get(c *gin.Context) {
	tool, err := h.toolService.Get(c.Param("toolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取工具详情成功", tool)
}

// Related 返回同分类的其他工具。
func (h *ToolHandler) Related(c *gin.Context) {
	tools, err := h.toolService.Related(c.Param("toolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取相关工具成功", tools)
}

// UseToolRequest 是调用工具的请求体，input 为工具参数。
type UseToolRequest struct {
	Input map[string]interface{} `json:"input"`
}

// Use 调用工具并记录使用情况。
func (h *ToolHandler) Use(c *gin.Context) {
	var req UseToolRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	result, err := h.toolService.Use(c.Request.Context(), currentUser(c).ID, c.Param("toolId"), req.Input, clientMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "工具调用成功", result)
}

// UserUsage 分页返回当前用户的工具使用记录。
func (h *ToolHandler) UserUsage(c *gin.Context) {
	skip, limit, ok := pagination(c)
	if !ok {
		return
	}
	usage, err := h.toolService.UserUsage(currentUser(c).ID, skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取使用记录成功", usage)
}
