package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/middleware"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/response"
)

// AuthHandler 负责处理注册、登录、令牌刷新和注销请求。
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest 定义了用户注册 API 的请求体结构。
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	FullName string `json:"full_name" binding:"max=100"`
}

// Register 处理用户注册请求。
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Register(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		log.Warnf("Register: 用户 '%s' 注册失败, error: %v", req.Username, err)
		response.Error(c, err)
		return
	}

	response.OK(c, "注册成功", gin.H{"user_id": user.ID})
}

// LoginRequest 定义了用户登录 API 的请求体结构。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.userService.Login(c.Request.Context(), req.Username, req.Password, clientMeta(c))
	if err != nil {
		log.Warnf("Login: 用户 '%s' 登录失败, error: %v", req.Username, err)
		response.Error(c, err)
		return
	}

	log.Infof("用户 '%s' 登录成功", req.Username)
	response.OK(c, "登录成功", pair)
}

// RefreshTokenRequest 定义了刷新 token API 的请求体结构。
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 处理刷新 token 的请求。
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		log.Warnf("RefreshToken: 刷新令牌失败, error: %v", err)
		response.Error(c, err)
		return
	}
	response.OK(c, "令牌刷新成功", pair)
}

// Logout 将当前 access token 加入黑名单。
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := c.GetString(middleware.ContextToken)
	if tokenString == "" {
		response.Fail(c, http.StatusUnauthorized, "无效的令牌")
		return
	}
	if err := h.userService.Logout(c.Request.Context(), tokenString); err != nil {
		response.Error(c, err)
		return
	}
	log.Infof("用户 '%s' 已注销", currentUser(c).Username)
	response.OK(c, "注销成功", nil)
}
