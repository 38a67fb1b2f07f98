// Package types 定义服务层共享的类型和错误
package types

import (
	"errors"
	"fmt"
)

// 服务层统一错误，handler 层据此映射 HTTP 状态码
var (
	// ErrModelNotFound 请求的模型不在当前目录中
	ErrModelNotFound = errors.New("model not found")

	// ErrProviderUnavailable 提供商当前不可达或未配置
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrDocumentNotFound 文档不存在
	ErrDocumentNotFound = errors.New("document not found")

	// ErrSessionNotFound 会话不存在
	ErrSessionNotFound = errors.New("session not found")

	// ErrGenerationInProgress 会话已有进行中的生成
	ErrGenerationInProgress = errors.New("generation already in progress")

	// ErrGenerationAborted 生成被主动取消
	ErrGenerationAborted = errors.New("generation aborted")
)

// ProviderInitError 提供商客户端构造失败
type ProviderInitError struct {
	Provider string
	ModelID  string
	Err      error
}

// Error 实现 error 接口
func (e *ProviderInitError) Error() string {
	return fmt.Sprintf("failed to initialize %s client for model %s: %v", e.Provider, e.ModelID, e.Err)
}

// Unwrap 返回底层错误
func (e *ProviderInitError) Unwrap() error {
	return e.Err
}

// ReasoningEffort 推理强度档位
const (
	EffortDisabled = "disabled"
	EffortLow      = "low"
	EffortMedium   = "medium"
	EffortHigh     = "high"
)
