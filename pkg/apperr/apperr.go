// Package apperr 定义了业务层向接入层报告的错误类别。
//
// 业务代码返回 *Error，接入层通过 errors.Is 判断类别并决定 HTTP 状态码；
// 其他错误一律视为服务器内部错误。
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTooLarge     = errors.New("entity too large")
)

// Error 携带面向调用方的提示信息和错误类别。
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation 表示调用方输入不合法。
func Validation(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// NotFound 表示目标资源不存在或对调用方不可见。
func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// Conflict 表示唯一性等约束冲突。
func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

// Unauthorized 表示凭证无效。
func Unauthorized(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}

// Forbidden 表示凭证有效但无权操作。
func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

// TooLarge 表示请求实体超出限制。
func TooLarge(format string, args ...interface{}) error {
	return newError(ErrTooLarge, format, args...)
}

// IsValidation 是 errors.Is(err, ErrValidation) 的简写。
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
