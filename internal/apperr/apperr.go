// Package apperr 定义服务统一的错误分类，所有接口层按此映射 HTTP 状态码
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	KindValidation   Kind = iota + 1 // 参数校验失败
	KindConflict                     // 唯一约束冲突
	KindNotFound                     // 记录不存在
	KindUnauthorized                 // 令牌缺失/过期/无效
	KindForbidden                    // 角色或归属校验失败
	KindInternal                     // 存储或下游故障
)

// Error 携带类别与稳定消息的错误
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is 使同类别的哨兵错误可以通过 errors.Is 匹配
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// 类别哨兵，用于 errors.Is 判断
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "resource conflict"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInternal     = &Error{Kind: KindInternal, Message: "internal error"}
)

// New 创建指定类别的错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf 创建带格式化消息的错误
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误并归类
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// HTTPStatus 将错误映射为 HTTP 状态码
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf 提取对外返回的稳定消息，未分类错误一律返回通用文案
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Server error"
}
