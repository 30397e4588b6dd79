// Package response 统一了 HTTP 接口的响应结构。
//
// 所有接口返回 {"code", "success", "message", "data"}，code 与 HTTP 状态码一致。
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/log"
)

// internalMessage 是服务器内部错误返回给客户端的统一提示。
const internalMessage = "服务器内部错误"

func body(status int, message string, data interface{}) gin.H {
	return gin.H{
		"code":    status,
		"success": status < http.StatusBadRequest,
		"message": message,
		"data":    data,
	}
}

// OK 返回 200 和数据。
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, body(http.StatusOK, message, data))
}

// Created 返回 201 和数据。
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, body(http.StatusCreated, message, data))
}

// Fail 返回指定状态码的错误响应。
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, body(status, message, nil))
}

// Abort 返回错误响应并中止后续处理器，供中间件使用。
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, body(status, message, nil))
}

// StatusOf 将业务错误类别映射为 HTTP 状态码，未知错误视为 500。
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// Error 根据错误类别返回响应。内部错误只记录日志，不向客户端暴露细节。
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Errorf("[%s %s] 请求处理失败: %v", c.Request.Method, c.FullPath(), err)
		Fail(c, status, internalMessage)
		return
	}
	Fail(c, status, err.Error())
}

// AbortError 与 Error 相同，但会中止后续处理器。
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
