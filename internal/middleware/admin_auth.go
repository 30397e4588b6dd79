package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-portal-go/internal/model"
	"ai-portal-go/pkg/response"
)

// AdminAuthMiddleware 检查用户是否具有管理员权限。
// 此中间件必须在 AuthMiddleware 之后使用。
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get(ContextUser)
		if !exists {
			response.Abort(c, http.StatusInternalServerError, "无法获取用户信息")
			return
		}

		currentUser, ok := user.(*model.User)
		if !ok {
			response.Abort(c, http.StatusInternalServerError, "用户数据类型错误")
			return
		}

		if currentUser.Role != model.RoleAdmin {
			response.Abort(c, http.StatusForbidden, "权限不足，需要管理员权限")
			return
		}
		c.Next()
	}
}
