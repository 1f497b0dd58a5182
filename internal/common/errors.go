package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code, message string, err error) error {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewError 创建新错误
func NewError(code, message string) error {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// 错误码常量
const (
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUpstreamTransport = "UPSTREAM_TRANSPORT_ERROR"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// 对外返回的固定文案
const (
	MsgRateLimited = "GitHub API rate limit exceeded. Try again later."
	MsgNotFound    = "User not found"
)

// StatusError 表示上游返回了非 200 的状态码
type StatusError struct {
	Resource   string // "profile" 或 "repos"
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s request returned status %d", e.Resource, e.StatusCode)
}

// IsStatus 判断 err 是否为指定状态码的 StatusError
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// HTTPStatus 把错误映射为对外的 HTTP 状态码
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case ErrCodeRateLimited:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage 返回可以直接放进响应体 error 字段的文案
// 传输层错误返回底层错误的描述
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Code == ErrCodeUpstreamTransport && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return appErr.Message
}
