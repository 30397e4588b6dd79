// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/response"
)

// 上下文键
const (
	ContextUser   = "user"
	ContextClaims = "claims"
	ContextToken  = "token"
)

// BearerToken 从 Authorization 请求头中提取 token，格式不正确时返回空串。
func BearerToken(c *gin.Context) string {
	const bearerPrefix = "Bearer "
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
}

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 它会校验 access token、黑名单和账户状态，并将 User 对象存入 Gin 的上下文中。
func AuthMiddleware(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Abort(c, http.StatusUnauthorized, "请求未包含授权头")
			return
		}
		tokenString := BearerToken(c)
		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, "无效的授权头格式")
			return
		}

		user, claims, err := userService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			response.AbortError(c, err)
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextClaims, claims)
		c.Set(ContextToken, tokenString)
		c.Next()
	}
}
