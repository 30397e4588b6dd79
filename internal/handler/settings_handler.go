package handler

import (
	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/response"
)

// SettingsHandler 负责处理用户设置和系统设置请求。
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler 创建一个新的 SettingsHandler 实例。
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetUserSettings 返回当前用户的设置，首次访问时创建默认设置。
func (h *SettingsHandler) GetUserSettings(c *gin.Context) {
	settings, err := h.settingsService.GetUserSettings(currentUser(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取用户设置成功", settings)
}

// UpdateUserSettings 更新当前用户的设置，未声明的字段会被拒绝。
func (h *SettingsHandler) UpdateUserSettings(c *gin.Context) {
	var req service.UserSettingsUpdate
	if !bindStrictJSON(c, &req) {
		return
	}
	settings, err := h.settingsService.UpdateUserSettings(currentUser(c).ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "用户设置更新成功", settings)
}

// PublicSystemSettings 返回公开的系统设置，无需登录。
func (h *SettingsHandler) PublicSystemSettings(c *gin.Context) {
	settings, err := h.settingsService.PublicSystemSettings()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取公开设置成功", settings)
}

// ListSystemSettings 返回全部系统设置，仅管理员可用。
func (h *SettingsHandler) ListSystemSettings(c *gin.Context) {
	settings, err := h.settingsService.ListSystemSettings()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取系统设置成功", settings)
}

// UpsertSystemSetting 创建或更新系统设置，仅管理员可用。
func (h *SettingsHandler) UpsertSystemSetting(c *gin.Context) {
	var req service.SystemSettingInput
	if !bindStrictJSON(c, &req) {
		return
	}
	setting, err := h.settingsService.UpsertSystemSetting(c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "更新系统设置成功", setting)
}

// DeleteSystemSetting 删除系统设置，仅管理员可用。
func (h *SettingsHandler) DeleteSystemSetting(c *gin.Context) {
	if err := h.settingsService.DeleteSystemSetting(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "删除系统设置成功", nil)
}

func (h *SettingsHandler) Themes(c *gin.Context) {
	response.OK(c, "获取主题列表成功", service.Themes())
}

func (h *SettingsHandler) Languages(c *gin.Context) {
	response.OK(c, "获取语言列表成功", service.Languages())
}
