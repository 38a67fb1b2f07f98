package model

import "time"

// 消息角色
const (
	RoleHuman = "human"
	RoleAI    = "ai"
	RoleTool  = "tool"
)

// 工具消息状态
const (
	ToolStatusSuccess = "success"
	ToolStatusError   = "error"
)

// ChatSession 聊天会话
// 模型与向量模型在会话创建时从全局设置取默认值，之后可按会话覆盖
type ChatSession struct {
	ID              string        `json:"id" gorm:"primaryKey;size:36"`
	Name            string        `json:"name" gorm:"size:255"`
	Model           string        `json:"model" gorm:"size:255"`
	EmbeddingModel  string        `json:"embedding_model" gorm:"size:255"`
	EnabledTools    StringList    `json:"enabled_tools" gorm:"type:json"`
	ReasoningEffort string        `json:"reasoning_effort" gorm:"size:20"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
	Messages        []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:SessionID"`
}

// ChatMessage 聊天消息
// Position 是会话内从 0 开始的序号，编辑/重新生成按序号截断
type ChatMessage struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	SessionID string `json:"session_id" gorm:"index;size:36"`
	Position  int    `json:"position" gorm:"index"`
	Role      string `json:"role" gorm:"size:20;index"` // human, ai, tool
	Content   string `json:"content" gorm:"type:text"`
	// 附件内容块（provider 形状），仅附件消息携带
	Blocks JSONList `json:"blocks,omitempty" gorm:"type:json"`

	// 工具消息专用字段
	ToolCallID string `json:"tool_call_id,omitempty" gorm:"size:255"`
	ToolName   string `json:"tool_name,omitempty" gorm:"size:255"`
	ToolStatus string `json:"tool_status,omitempty" gorm:"size:20"`
	Metadata   JSON   `json:"metadata,omitempty" gorm:"type:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
