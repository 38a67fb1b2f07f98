package model

// Settings 用户设置
// 每个安装只有一条逻辑上的"当前"记录，更新采用整体替换并更新时间戳，
// 读取方不会观察到半更新状态
type Settings struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at" gorm:"index"`

	DefaultChatModel       string     `json:"default_chat_model" gorm:"size:255"`
	EnabledChatModels      StringList `json:"enabled_chat_models" gorm:"type:json"`
	DefaultEmbeddingModel  string     `json:"default_embedding_model" gorm:"size:255"`
	EnabledEmbeddingModels StringList `json:"enabled_embedding_models" gorm:"type:json"`

	// 各 Provider 的连接参数
	OllamaBaseURL   string `json:"ollama_base_url" gorm:"size:255"`
	OpenAIAPIKey    string `json:"openai_api_key" gorm:"size:255"`
	OpenAIBaseURL   string `json:"openai_base_url" gorm:"size:255"`
	OpenAIModel     string `json:"openai_model" gorm:"size:512"` // 自定义模型列表，逗号分隔
	AnthropicAPIKey string `json:"anthropic_api_key" gorm:"size:255"`
	GeminiAPIKey    string `json:"gemini_api_key" gorm:"size:255"`
	HFToken         string `json:"hf_token" gorm:"size:255"`
	HFCustomModels  string `json:"hf_custom_models" gorm:"size:512"` // 自定义模型列表，逗号分隔

	// 最近一次探测得到的 Ollama 可用状态
	OllamaAvailable bool `json:"ollama_available"`
}

// TableName 指定表名
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings 返回默认设置（不含 ID 和时间戳）
func DefaultSettings() Settings {
	return Settings{
		DefaultChatModel:       "",
		EnabledChatModels:      StringList{},
		DefaultEmbeddingModel:  "",
		EnabledEmbeddingModels: StringList{},
		OllamaBaseURL:          "http://localhost:11434",
		OllamaAvailable:        false,
	}
}

// SettingsPatch 设置的部分更新
// 指针字段为 nil 表示不修改该字段
type SettingsPatch struct {
	DefaultChatModel       *string     `json:"default_chat_model"`
	EnabledChatModels      *StringList `json:"enabled_chat_models"`
	DefaultEmbeddingModel  *string     `json:"default_embedding_model"`
	EnabledEmbeddingModels *StringList `json:"enabled_embedding_models"`
	OllamaBaseURL          *string     `json:"ollama_base_url"`
	OpenAIAPIKey           *string     `json:"openai_api_key"`
	OpenAIBaseURL          *string     `json:"openai_base_url"`
	OpenAIModel            *string     `json:"openai_model"`
	AnthropicAPIKey        *string     `json:"anthropic_api_key"`
	GeminiAPIKey           *string     `json:"gemini_api_key"`
	HFToken                *string     `json:"hf_token"`
	HFCustomModels         *string     `json:"hf_custom_models"`
}

// Apply 将补丁应用到设置副本上，返回新值
func (p *SettingsPatch) Apply(s Settings) Settings {
	if p.DefaultChatModel != nil {
		s.DefaultChatModel = *p.DefaultChatModel
	}
	if p.EnabledChatModels != nil {
		s.EnabledChatModels = *p.EnabledChatModels
	}
	if p.DefaultEmbeddingModel != nil {
		s.DefaultEmbeddingModel = *p.DefaultEmbeddingModel
	}
	if p.EnabledEmbeddingModels != nil {
		s.EnabledEmbeddingModels = *p.EnabledEmbeddingModels
	}
	if p.OllamaBaseURL != nil {
		s.OllamaBaseURL = *p.OllamaBaseURL
	}
	if p.OpenAIAPIKey != nil {
		s.OpenAIAPIKey = *p.OpenAIAPIKey
	}
	if p.OpenAIBaseURL != nil {
		s.OpenAIBaseURL = *p.OpenAIBaseURL
	}
	if p.OpenAIModel != nil {
		s.OpenAIModel = *p.OpenAIModel
	}
	if p.AnthropicAPIKey != nil {
		s.AnthropicAPIKey = *p.AnthropicAPIKey
	}
	if p.GeminiAPIKey != nil {
		s.GeminiAPIKey = *p.GeminiAPIKey
	}
	if p.HFToken != nil {
		s.HFToken = *p.HFToken
	}
	if p.HFCustomModels != nil {
		s.HFCustomModels = *p.HFCustomModels
	}
	return s
}

// TouchesModelSources 判断补丁是否修改了影响模型目录的字段
// 修改这些字段后需要刷新模型注册表
func (p *SettingsPatch) TouchesModelSources() bool {
	return p.OllamaBaseURL != nil || p.OpenAIModel != nil || p.HFCustomModels != nil
}
