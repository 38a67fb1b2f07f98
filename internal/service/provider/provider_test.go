package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/registry"
	"github.com/ashwinyue/next-chat/internal/service/types"
)

// staticSettings 固定设置源
type staticSettings struct {
	settings model.Settings
}

func (s *staticSettings) Get(ctx context.Context) (*model.Settings, error) {
	copied := s.settings
	return &copied, nil
}

func newTestResolver(settings model.Settings) *Resolver {
	return NewResolver(registry.New(), &staticSettings{settings: settings})
}

func TestBuildChatModelUnknownModel(t *testing.T) {
	r := newTestResolver(model.DefaultSettings())

	_, _, err := r.BuildChatModel(context.Background(), "no-such-model", "")
	if !errors.Is(err, types.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestBuildChatModelMissingAPIKey(t *testing.T) {
	settings := model.DefaultSettings()
	r := newTestResolver(settings)

	for _, modelID := range []string{"gpt-4o", "claude-3-5-sonnet-20240620", "gemini-2.0-flash"} {
		_, _, err := r.BuildChatModel(context.Background(), modelID, "")
		var initErr *types.ProviderInitError
		if !errors.As(err, &initErr) {
			t.Errorf("model %s: expected ProviderInitError, got %v", modelID, err)
			continue
		}
		if initErr.ModelID != modelID {
			t.Errorf("model %s: error carries wrong model id %s", modelID, initErr.ModelID)
		}
	}
}

func TestBuildChatModelHuggingFaceWithoutToken(t *testing.T) {
	r := newTestResolver(model.DefaultSettings())

	_, _, err := r.BuildChatModel(context.Background(), "mistralai/Mistral-7B-Instruct-v0.2", "")
	var initErr *types.ProviderInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected ProviderInitError, got %v", err)
	}
	if initErr.Provider != string(registry.ProviderHuggingFace) {
		t.Errorf("expected huggingface provider in error, got %s", initErr.Provider)
	}
}

func TestBuildOllamaClientsWithStaleAvailability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	}))
	defer server.Close()

	settings := model.DefaultSettings()
	settings.OllamaBaseURL = server.URL
	settings.OllamaAvailable = false // 上次探测失败的过期标记
	r := newTestResolver(settings)
	r.registry.Refresh(context.Background(), settings)

	// 对话客户端只看配置的地址，过期的不可用标记不拦截
	chatModel, _, err := r.BuildChatModel(context.Background(), "llama3.2:latest", "")
	if err != nil {
		t.Fatalf("BuildChatModel failed: %v", err)
	}
	if chatModel == nil {
		t.Fatal("expected non-nil chat model")
	}

	// 向量模型仍受可用性标记约束，避免挂起的网络调用
	_, err = r.BuildEmbedder(context.Background(), "llama3.2:latest")
	if !errors.Is(err, types.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable for embedder, got %v", err)
	}
}

func TestBuildChatModelSucceedsWithKey(t *testing.T) {
	settings := model.DefaultSettings()
	settings.OpenAIAPIKey = "sk-test"
	r := newTestResolver(settings)

	chatModel, desc, err := r.BuildChatModel(context.Background(), "gpt-4o", "")
	if err != nil {
		t.Fatalf("BuildChatModel failed: %v", err)
	}
	if chatModel == nil {
		t.Fatal("expected non-nil chat model")
	}
	if desc.Provider != registry.ProviderOpenAI {
		t.Errorf("unexpected provider %s", desc.Provider)
	}
}

func TestBuildChatModelReasoningEffort(t *testing.T) {
	settings := model.DefaultSettings()
	settings.OpenAIAPIKey = "sk-test"
	r := newTestResolver(settings)

	if _, _, err := r.BuildChatModel(context.Background(), "o3-mini", types.EffortHigh); err != nil {
		t.Fatalf("BuildChatModel with effort failed: %v", err)
	}
}

func TestBuildChatModelClaudeThinkingBudget(t *testing.T) {
	settings := model.DefaultSettings()
	settings.AnthropicAPIKey = "sk-ant"
	r := newTestResolver(settings)

	for _, effort := range []string{types.EffortDisabled, types.EffortLow, types.EffortMedium, types.EffortHigh} {
		if _, _, err := r.BuildChatModel(context.Background(), "claude-3-7-sonnet-20250219", effort); err != nil {
			t.Errorf("effort %s: BuildChatModel failed: %v", effort, err)
		}
	}

	_, _, err := r.BuildChatModel(context.Background(), "claude-3-7-sonnet-20250219", "bogus")
	var initErr *types.ProviderInitError
	if !errors.As(err, &initErr) {
		t.Errorf("expected ProviderInitError for unknown effort, got %v", err)
	}
}

func TestBuildEmbedderUnknownModel(t *testing.T) {
	r := newTestResolver(model.DefaultSettings())

	_, err := r.BuildEmbedder(context.Background(), "no-such-embedding")
	if !errors.Is(err, types.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}
