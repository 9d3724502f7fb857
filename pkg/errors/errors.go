package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类，决定 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindPersistence
)

// String 返回错误分类名称（用于日志）
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// 通用错误码
const (
	CodeInternal    = 50000
	CodePersistence = 50001
)

// Error 带分类与错误码的业务错误
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建业务错误（一般作为包级哨兵变量）
func New(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation / NotFound / Conflict ... 快捷构造
func Validation(code int, message string) *Error { return New(KindValidation, code, message) }

func Authentication(code int, message string) *Error { return New(KindAuthentication, code, message) }

func Authorization(code int, message string) *Error { return New(KindAuthorization, code, message) }

func NotFound(code int, message string) *Error { return New(KindNotFound, code, message) }

func Conflict(code int, message string) *Error { return New(KindConflict, code, message) }

// Persistence 将存储层错误包装为 Persistence 错误；已是业务错误则原样返回
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindPersistence, Code: CodePersistence, Message: "数据存储异常", Err: err}
}

// KindOf 提取错误分类，非业务错误视为 Internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As 提取业务错误
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
