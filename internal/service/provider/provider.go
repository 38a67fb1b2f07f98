// Package provider 按模型目录条目构造各提供商的对话与向量客户端
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ollamaemb "github.com/cloudwego/eino-ext/components/embedding/ollama"
	openaiemb "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/embedding"
	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/registry"
	"github.com/ashwinyue/next-chat/internal/service/types"
)

// 各提供商的 OpenAI 兼容接入点
const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	anthropicBaseURL     = "https://api.anthropic.com/v1/"
	geminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta/openai/"
	huggingfaceBaseURL   = "https://api-inference.huggingface.co/v1/"
)

// Claude 扩展思考的 token 预算档位
var thinkingBudgets = map[string]int{
	types.EffortLow:    1024,
	types.EffortMedium: 4096,
	types.EffortHigh:   16384,
}

// SettingsSource 提供当前设置
type SettingsSource interface {
	Get(ctx context.Context) (*model.Settings, error)
}

// Resolver 将模型标识解析为可调用的客户端
type Resolver struct {
	registry *registry.Registry
	settings SettingsSource
}

// NewResolver 创建解析器
func NewResolver(reg *registry.Registry, settings SettingsSource) *Resolver {
	return &Resolver{registry: reg, settings: settings}
}

// BuildChatModel 为目录中的模型构造对话客户端。
// effort 仅对推理模型生效，其余模型忽略。
func (r *Resolver) BuildChatModel(ctx context.Context, modelID, effort string) (einomodel.ToolCallingChatModel, *registry.ChatModel, error) {
	desc, ok := r.registry.FindChatModel(modelID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", types.ErrModelNotFound, modelID)
	}

	settings, err := r.settings.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg := &openai.ChatModelConfig{Model: desc.Model}

	switch desc.Provider {
	case registry.ProviderOpenAI:
		if settings.OpenAIAPIKey == "" {
			return nil, nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: errors.New("api key is not configured")}
		}
		cfg.APIKey = settings.OpenAIAPIKey
		cfg.BaseURL = defaultOpenAIBaseURL
		if settings.OpenAIBaseURL != "" {
			cfg.BaseURL = settings.OpenAIBaseURL
		}
		if desc.IsReasoning {
			cfg.ReasoningEffort = reasoningEffortLevel(effort)
		}

	case registry.ProviderAnthropic:
		if settings.AnthropicAPIKey == "" {
			return nil, nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: errors.New("api key is not configured")}
		}
		cfg.APIKey = settings.AnthropicAPIKey
		cfg.BaseURL = anthropicBaseURL
		if desc.IsReasoning && effort != "" && effort != types.EffortDisabled {
			budget, ok := thinkingBudgets[effort]
			if !ok {
				return nil, nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: fmt.Errorf("unknown reasoning effort %q", effort)}
			}
			cfg.ExtraFields = map[string]any{
				"thinking": map[string]any{"type": "enabled", "budget_tokens": budget},
			}
		}

	case registry.ProviderGemini:
		if settings.GeminiAPIKey == "" {
			return nil, nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: errors.New("api key is not configured")}
		}
		cfg.APIKey = settings.GeminiAPIKey
		cfg.BaseURL = geminiBaseURL

	case registry.ProviderOllama:
		// 对话客户端只依赖配置的地址，可用性标记仅约束向量模型
		if settings.OllamaBaseURL == "" {
			return nil, nil, fmt.Errorf("%w: ollama", types.ErrProviderUnavailable)
		}
		cfg.APIKey = "ollama"
		cfg.BaseURL = strings.TrimRight(settings.OllamaBaseURL, "/") + "/v1"

	case registry.ProviderHuggingFace:
		if settings.HFToken == "" {
			return nil, nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: errors.New("access token is not configured")}
		}
		cfg.APIKey = settings.HFToken
		cfg.BaseURL = huggingfaceBaseURL

	default:
		return nil, nil, fmt.Errorf("%w: unsupported provider %s", types.ErrModelNotFound, desc.Provider)
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: err}
	}
	return chatModel, desc, nil
}

// BuildEmbedder 为目录中的向量模型构造客户端
func (r *Resolver) BuildEmbedder(ctx context.Context, modelID string) (embedding.Embedder, error) {
	desc, ok := r.registry.FindEmbeddingModel(modelID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrModelNotFound, modelID)
	}

	settings, err := r.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch desc.Provider {
	case registry.ProviderOpenAI:
		if settings.OpenAIAPIKey == "" {
			return nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: errors.New("api key is not configured")}
		}
		baseURL := defaultOpenAIBaseURL
		if settings.OpenAIBaseURL != "" {
			baseURL = settings.OpenAIBaseURL
		}
		embedder, err := openaiemb.NewEmbedder(ctx, &openaiemb.EmbeddingConfig{
			APIKey:  settings.OpenAIAPIKey,
			BaseURL: baseURL,
			Model:   desc.Model,
		})
		if err != nil {
			return nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: err}
		}
		return embedder, nil

	case registry.ProviderGemini:
		if settings.GeminiAPIKey == "" {
			return nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: errors.New("api key is not configured")}
		}
		embedder, err := openaiemb.NewEmbedder(ctx, &openaiemb.EmbeddingConfig{
			APIKey:  settings.GeminiAPIKey,
			BaseURL: geminiBaseURL,
			Model:   desc.Model,
		})
		if err != nil {
			return nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: err}
		}
		return embedder, nil

	case registry.ProviderOllama:
		if settings.OllamaBaseURL == "" || !settings.OllamaAvailable {
			return nil, fmt.Errorf("%w: ollama", types.ErrProviderUnavailable)
		}
		embedder, err := ollamaemb.NewEmbedder(ctx, &ollamaemb.EmbeddingConfig{
			BaseURL: settings.OllamaBaseURL,
			Model:   desc.Model,
		})
		if err != nil {
			return nil, &types.ProviderInitError{Provider: string(desc.Provider), ModelID: modelID, Err: err}
		}
		return embedder, nil

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %s", types.ErrModelNotFound, desc.Provider)
	}
}

// reasoningEffortLevel 将档位字符串映射为 OpenAI 推理强度
func reasoningEffortLevel(effort string) openai.ReasoningEffortLevel {
	switch effort {
	case types.EffortLow:
		return openai.ReasoningEffortLevelLow
	case types.EffortHigh:
		return openai.ReasoningEffortLevelHigh
	default:
		return openai.ReasoningEffortLevelMedium
	}
}
