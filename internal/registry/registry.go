package registry

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	ollamaapi "github.com/ollama/ollama/api"

	"github.com/ashwinyue/next-chat/internal/model"
)

// Catalog 某一时刻可选模型的完整快照
type Catalog struct {
	ChatModels      []ChatModel
	EmbeddingModels []EmbeddingModel
}

// FindChatModel 按模型标识查找对话模型
func (c *Catalog) FindChatModel(modelID string) (*ChatModel, bool) {
	for i := range c.ChatModels {
		if c.ChatModels[i].Model == modelID {
			return &c.ChatModels[i], true
		}
	}
	return nil, false
}

// FindEmbeddingModel 按模型标识查找向量模型
func (c *Catalog) FindEmbeddingModel(modelID string) (*EmbeddingModel, bool) {
	for i := range c.EmbeddingModels {
		if c.EmbeddingModels[i].Model == modelID {
			return &c.EmbeddingModels[i], true
		}
	}
	return nil, false
}

// Registry 维护可用模型目录，并在配置变更后从 Ollama 等外部源刷新
type Registry struct {
	current atomic.Pointer[Catalog]

	// 探测 Ollama 时使用的 HTTP 客户端，测试中可替换
	httpClient *http.Client
}

// New 创建仅包含基础目录的注册表
func New() *Registry {
	r := &Registry{httpClient: http.DefaultClient}
	r.current.Store(baseCatalog())
	return r
}

// Current 返回当前目录快照，调用方不得修改返回值
func (r *Registry) Current() *Catalog {
	return r.current.Load()
}

// FindChatModel 在当前快照中查找对话模型
func (r *Registry) FindChatModel(modelID string) (*ChatModel, bool) {
	return r.Current().FindChatModel(modelID)
}

// FindEmbeddingModel 在当前快照中查找向量模型
func (r *Registry) FindEmbeddingModel(modelID string) (*EmbeddingModel, bool) {
	return r.Current().FindEmbeddingModel(modelID)
}

// Refresh 根据设置重建目录。外部探测失败只记录日志并降级，
// 基础目录与自定义模型始终保留。返回 Ollama 是否可达。
func (r *Registry) Refresh(ctx context.Context, settings model.Settings) bool {
	catalog := baseCatalog()

	catalog.ChatModels = append(catalog.ChatModels, customOpenAIModels(settings.OpenAIModel)...)
	catalog.ChatModels = append(catalog.ChatModels, customHFModels(settings.HFCustomModels)...)

	ollamaAvailable := false
	if strings.TrimSpace(settings.OllamaBaseURL) != "" {
		models, err := r.listOllamaModels(ctx, settings.OllamaBaseURL)
		if err != nil {
			log.Printf("Warning: failed to list ollama models from %s: %v", settings.OllamaBaseURL, err)
		} else {
			ollamaAvailable = true
			for _, name := range models {
				catalog.ChatModels = append(catalog.ChatModels, ChatModel{
					Name:        name,
					Provider:    ProviderOllama,
					Model:       name,
					Description: fmt.Sprintf("Ollama model %s", name),
				})
				catalog.EmbeddingModels = append(catalog.EmbeddingModels, EmbeddingModel{
					Name:        name,
					Provider:    ProviderOllama,
					Model:       name,
					Description: fmt.Sprintf("Ollama embeddings %s", name),
				})
			}
		}
	}

	r.current.Store(catalog)
	return ollamaAvailable
}

// listOllamaModels 调用 Ollama 的 /api/tags 列出本地已安装模型
func (r *Registry) listOllamaModels(ctx context.Context, baseURL string) ([]string, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url: %w", err)
	}

	client := ollamaapi.NewClient(base, r.httpClient)
	resp, err := client.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func baseCatalog() *Catalog {
	c := &Catalog{
		ChatModels:      make([]ChatModel, len(BaseChatModels)),
		EmbeddingModels: make([]EmbeddingModel, len(BaseEmbeddingModels)),
	}
	copy(c.ChatModels, BaseChatModels)
	copy(c.EmbeddingModels, BaseEmbeddingModels)
	return c
}

// customOpenAIModels 将逗号分隔的自定义模型列表解析为目录条目
func customOpenAIModels(list string) []ChatModel {
	var out []ChatModel
	for _, id := range splitModelList(list) {
		out = append(out, ChatModel{
			Name:        fmt.Sprintf("Custom: %s", id),
			Provider:    ProviderOpenAI,
			Model:       id,
			Description: fmt.Sprintf("Custom OpenAI-compatible model %s", id),
		})
	}
	return out
}

// customHFModels 解析自定义 Hugging Face 模型列表
func customHFModels(list string) []ChatModel {
	var out []ChatModel
	for _, id := range splitModelList(list) {
		out = append(out, ChatModel{
			Name:        fmt.Sprintf("HF Custom: %s", id),
			Provider:    ProviderHuggingFace,
			Model:       id,
			Description: fmt.Sprintf("Custom Hugging Face model %s", id),
		})
	}
	return out
}

func splitModelList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}
