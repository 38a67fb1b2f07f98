package registry

// Provider 模型提供商标识
type Provider string

const (
	ProviderOpenAI      Provider = "openai"
	ProviderAnthropic   Provider = "anthropic"
	ProviderGemini      Provider = "gemini"
	ProviderOllama      Provider = "ollama"
	ProviderHuggingFace Provider = "huggingface"
)

// Modality 模型支持的非文本模态
type Modality string

const (
	ModalityImage Modality = "image"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
	ModalityPDF   Modality = "pdf"
)

// ChatModel 对话模型描述符，构造后不可变
type ChatModel struct {
	Name            string     `json:"name"`
	Provider        Provider   `json:"provider"`
	Model           string     `json:"model"`
	Description     string     `json:"description"`
	Modalities      []Modality `json:"modalities"`
	IsReasoning     bool       `json:"is_reasoning"`
	ReasoningLevels []string   `json:"reasoning_levels,omitempty"`
}

// SupportsModality 判断模型是否声明支持指定模态
func (m *ChatModel) SupportsModality(mod Modality) bool {
	for _, c := range m.Modalities {
		if c == mod {
			return true
		}
	}
	return false
}

// EmbeddingModel 向量模型描述符
type EmbeddingModel struct {
	Name        string   `json:"name"`
	Provider    Provider `json:"provider"`
	Model       string   `json:"model"`
	Description string   `json:"description"`
}

// BaseChatModels 始终可用的基础对话模型目录
var BaseChatModels = []ChatModel{
	{
		Name:        "GPT-4o",
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o",
		Description: "OpenAI GPT-4o",
		Modalities:  []Modality{ModalityImage},
	},
	{
		Name:        "GPT-4o Mini",
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		Description: "OpenAI GPT-4o Mini",
		Modalities:  []Modality{ModalityImage},
	},
	{
		Name:            "o3-mini",
		Provider:        ProviderOpenAI,
		Model:           "o3-mini",
		Description:     "OpenAI o3-mini",
		IsReasoning:     true,
		ReasoningLevels: []string{"low", "medium", "high"},
	},
	{
		Name:        "Claude 3.5 Sonnet",
		Provider:    ProviderAnthropic,
		Model:       "claude-3-5-sonnet-20240620",
		Description: "Anthropic Claude 3.5 Sonnet",
		Modalities:  []Modality{ModalityImage, ModalityPDF},
	},
	{
		Name:        "Claude 3.5 Haiku",
		Provider:    ProviderAnthropic,
		Model:       "claude-3-5-haiku-20241022",
		Description: "Anthropic Claude 3.5 Haiku",
		Modalities:  []Modality{ModalityImage, ModalityPDF},
	},
	{
		Name:            "Claude 3.7 Sonnet",
		Provider:        ProviderAnthropic,
		Model:           "claude-3-7-sonnet-20250219",
		Description:     "Anthropic Claude 3.7 Sonnet",
		Modalities:      []Modality{ModalityImage, ModalityPDF},
		IsReasoning:     true,
		ReasoningLevels: []string{"disabled", "low", "medium", "high"},
	},
	{
		Name:        "Gemini 2.0 Flash",
		Provider:    ProviderGemini,
		Model:       "gemini-2.0-flash",
		Description: "Google Gemini 2.0 Flash",
		Modalities:  []Modality{ModalityImage, ModalityPDF, ModalityAudio, ModalityVideo},
	},
	{
		Name:        "Gemini 2.0 Flash Lite",
		Provider:    ProviderGemini,
		Model:       "gemini-2.0-flash-lite-preview-02-05",
		Description: "Google Gemini 2.0 Flash Lite",
		Modalities:  []Modality{ModalityImage, ModalityPDF, ModalityAudio, ModalityVideo},
	},
	{
		Name:        "Gemini 2.0 Pro Exp",
		Provider:    ProviderGemini,
		Model:       "gemini-2.0-pro-exp-02-05",
		Description: "Google Gemini 2.0 Pro Exp",
		Modalities:  []Modality{ModalityImage, ModalityPDF, ModalityAudio, ModalityVideo},
	},
	{
		Name:        "Gemini 2.0 Flash Thinking Exp",
		Provider:    ProviderGemini,
		Model:       "gemini-2.0-flash-thinking-exp-01-21",
		Description: "Google Gemini 2.0 Flash Thinking Exp",
		Modalities:  []Modality{ModalityImage, ModalityPDF, ModalityAudio, ModalityVideo},
	},
	{
		Name:        "Hugging Face - Mistral",
		Provider:    ProviderHuggingFace,
		Model:       "mistralai/Mistral-7B-Instruct-v0.2",
		Description: "Mistral AI 7B Instruct model",
	},
	{
		Name:        "Hugging Face - Llama 2",
		Provider:    ProviderHuggingFace,
		Model:       "meta-llama/Llama-2-7b-chat-hf",
		Description: "Meta Llama 2 7B Chat",
	},
}

// BaseEmbeddingModels 始终可用的基础向量模型目录
var BaseEmbeddingModels = []EmbeddingModel{
	{
		Name:        "OpenAI Embeddings",
		Provider:    ProviderOpenAI,
		Model:       "text-embedding-3-small",
		Description: "OpenAI Embeddings",
	},
	{
		Name:        "Gemini Embeddings",
		Provider:    ProviderGemini,
		Model:       "text-embedding-005",
		Description: "Google GenAI Embeddings",
	},
}
