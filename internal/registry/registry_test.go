package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashwinyue/next-chat/internal/model"
)

func TestNewContainsBaseCatalog(t *testing.T) {
	r := New()
	catalog := r.Current()

	if len(catalog.ChatModels) != len(BaseChatModels) {
		t.Fatalf("expected %d chat models, got %d", len(BaseChatModels), len(catalog.ChatModels))
	}
	if _, ok := r.FindChatModel("gpt-4o"); !ok {
		t.Error("expected gpt-4o in base catalog")
	}
	if _, ok := r.FindEmbeddingModel("text-embedding-3-small"); !ok {
		t.Error("expected text-embedding-3-small in base catalog")
	}
}

func TestRefreshKeepsBaseModelsWhenProbeFails(t *testing.T) {
	r := New()
	settings := model.DefaultSettings()
	settings.OllamaBaseURL = "http://127.0.0.1:1" // nothing listens here

	available := r.Refresh(context.Background(), settings)
	if available {
		t.Error("expected ollama to be reported unavailable")
	}

	catalog := r.Current()
	for _, base := range BaseChatModels {
		if _, ok := catalog.FindChatModel(base.Model); !ok {
			t.Errorf("base model %s missing after failed refresh", base.Model)
		}
	}
}

func TestRefreshSkipsProbeWithoutBaseURL(t *testing.T) {
	r := New()
	settings := model.DefaultSettings()
	settings.OllamaBaseURL = ""

	if available := r.Refresh(context.Background(), settings); available {
		t.Error("expected ollama unavailable when base url is empty")
	}
}

func TestRefreshAddsOllamaModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/tags" {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"nomic-embed-text:latest"}]}`))
	}))
	defer server.Close()

	r := New()
	settings := model.DefaultSettings()
	settings.OllamaBaseURL = server.URL

	if available := r.Refresh(context.Background(), settings); !available {
		t.Fatal("expected ollama to be available")
	}

	catalog := r.Current()
	m, ok := catalog.FindChatModel("llama3.2:latest")
	if !ok {
		t.Fatal("expected llama3.2:latest in catalog")
	}
	if m.Provider != ProviderOllama {
		t.Errorf("expected ollama provider, got %s", m.Provider)
	}
	if _, ok := catalog.FindEmbeddingModel("nomic-embed-text:latest"); !ok {
		t.Error("expected ollama embedding model in catalog")
	}
}

func TestRefreshAddsCustomModels(t *testing.T) {
	r := New()
	settings := model.DefaultSettings()
	settings.OpenAIModel = "my-model, other-model ,"
	settings.HFCustomModels = "org/model-a"

	r.Refresh(context.Background(), settings)
	catalog := r.Current()

	m, ok := catalog.FindChatModel("my-model")
	if !ok {
		t.Fatal("expected custom model my-model")
	}
	if m.Name != "Custom: my-model" {
		t.Errorf("unexpected custom model name %q", m.Name)
	}
	if _, ok := catalog.FindChatModel("other-model"); !ok {
		t.Error("expected custom model other-model")
	}

	hf, ok := catalog.FindChatModel("org/model-a")
	if !ok {
		t.Fatal("expected HF custom model org/model-a")
	}
	if hf.Provider != ProviderHuggingFace {
		t.Errorf("expected huggingface provider, got %s", hf.Provider)
	}
	if hf.Name != "HF Custom: org/model-a" {
		t.Errorf("unexpected HF custom model name %q", hf.Name)
	}
}

func TestSnapshotIsStableAcrossRefresh(t *testing.T) {
	r := New()
	before := r.Current()
	beforeCount := len(before.ChatModels)

	settings := model.DefaultSettings()
	settings.OpenAIModel = "extra-model"
	r.Refresh(context.Background(), settings)

	if len(before.ChatModels) != beforeCount {
		t.Error("refresh mutated a previously returned snapshot")
	}
	if _, ok := r.Current().FindChatModel("extra-model"); !ok {
		t.Error("expected new snapshot to contain extra-model")
	}
}

func TestSupportsModality(t *testing.T) {
	r := New()
	gemini, _ := r.FindChatModel("gemini-2.0-flash")
	if !gemini.SupportsModality(ModalityVideo) {
		t.Error("expected gemini to support video")
	}
	o3, _ := r.FindChatModel("o3-mini")
	if o3.SupportsModality(ModalityImage) {
		t.Error("expected o3-mini to reject image modality")
	}
}
