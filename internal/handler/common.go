// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"ai-portal-go/internal/middleware"
	"ai-portal-go/internal/model"
	"ai-portal-go/internal/service"
	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/response"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// currentUser 返回 AuthMiddleware 写入上下文的用户。
func currentUser(c *gin.Context) *model.User {
	return c.MustGet(middleware.ContextUser).(*model.User)
}

func clientMeta(c *gin.Context) service.ClientMeta {
	return service.ClientMeta{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// pagination 解析 skip 和 limit 查询参数，limit 默认 20、最大 100。
func pagination(c *gin.Context) (int, int, bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		response.Fail(c, http.StatusBadRequest, "skip 必须是非负整数")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		response.Fail(c, http.StatusBadRequest, "limit 必须在1-100之间")
		return 0, 0, false
	}
	return skip, limit, true
}

// bindJSON 绑定并校验请求体，失败时直接返回 400。
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		log.Warnf("[%s] 无效的请求负载: %v", c.FullPath(), err)
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return false
	}
	return true
}

// bindStrictJSON 与 bindJSON 相同，但拒绝未声明的字段。
func bindStrictJSON(c *gin.Context, obj interface{}) bool {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(obj)
	if errors.Is(err, io.EOF) {
		err = errors.New("请求体不能为空")
	}
	if err == nil {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		log.Warnf("[%s] 无效的请求负载: %v", c.FullPath(), err)
		response.Fail(c, http.StatusBadRequest, "无效的请求参数: "+err.Error())
		return false
	}
	return true
}

// uintParam 解析路径中的数字 ID。
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的 "+name)
		return 0, false
	}
	return uint(id), true
}
