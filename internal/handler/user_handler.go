package handler

import (
	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/response"
)

// UserHandler 负责处理当前用户资料相关的 API 请求。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile 返回当前登录用户的资料。
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(currentUser(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取用户信息成功", user)
}

// UpdateProfile 更新当前用户资料，只接受 username、email、full_name、avatar 字段。
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.ProfileUpdate
	if !bindStrictJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(currentUser(c).ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "用户信息更新成功", user)
}

// ChangePasswordRequest 定义了修改密码 API 的请求体结构。
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=100"`
}

// ChangePassword 校验旧密码后修改密码。
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userService.ChangePassword(currentUser(c).ID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "密码修改成功", nil)
}
