package core

import "errors"

// DomainError 是引擎对外暴露的错误，按 Module + Code 区分，调用方用 IsXXX 判断。
//
//   - store：NOT_FOUND（key 不存在）
//   - catalog / signal：UNAVAILABLE（读取失败；信号失败时推荐退化为热门）
//   - signal / config：INVALID_INPUT（评分越界、配置或表达式非法）
//   - recognizer：NOT_SUPPORTED（未配置识别服务）、UNAVAILABLE
type DomainError struct {
	Module  string
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeNotSupported = "NOT_SUPPORTED"
	ErrorCodeUnavailable  = "UNAVAILABLE"
	ErrorCodeInvalidInput = "INVALID_INPUT"
)

const (
	ModuleStore      = "store"
	ModuleCatalog    = "catalog"
	ModuleSignal     = "signal"
	ModuleRecognizer = "recognizer"
	ModuleConfig     = "config"
)

func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message}
}

func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{Module: module, Code: code, Message: message, Err: err}
}

// GetDomainError 沿错误链查找 DomainError，找不到时返回 nil。
func GetDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

func hasCode(err error, code string) bool {
	de := GetDomainError(err)
	return de != nil && de.Code == code
}

func IsNotFound(err error) bool     { return hasCode(err, ErrorCodeNotFound) }
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }
func IsUnavailable(err error) bool  { return hasCode(err, ErrorCodeUnavailable) }
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }
