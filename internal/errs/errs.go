package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误码，接口返回时保持稳定
const (
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION"
	CodeLocked           = "LOCKED"
	CodeUpstream         = "UPSTREAM"
)

// Error 带错误码的业务错误
type Error struct {
	Code    string
	Message string
	Err     error                  // 底层错误，可为空
	Data    map[string]interface{} // 附加信息（剩余尝试次数、锁定倒计时等）
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithData 附加结构化信息
func (e *Error) WithData(key string, value interface{}) *Error {
	if e.Data == nil {
		e.Data = make(map[string]interface{})
	}
	e.Data[key] = value
	return e
}

// Unauthenticated 未认证错误
func Unauthenticated(format string, args ...interface{}) *Error {
	return &Error{Code: CodeUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

// PermissionDenied 权限不足错误
func PermissionDenied(format string, args ...interface{}) *Error {
	return &Error{Code: CodePermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// NotFound 资源不存在错误
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation 参数校验错误
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Locked 账号锁定错误
func Locked(format string, args ...interface{}) *Error {
	return &Error{Code: CodeLocked, Message: fmt.Sprintf(format, args...)}
}

// Upstream 外部依赖错误
func Upstream(err error, format string, args ...interface{}) *Error {
	return &Error{Code: CodeUpstream, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf 提取错误码，非业务错误归为 UPSTREAM
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUpstream
}

// DataOf 提取附加信息
func DataOf(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Data
	}
	return nil
}

// HTTPStatus 错误码到HTTP状态码的映射
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeLocked:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
