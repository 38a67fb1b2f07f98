// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import "github.com/ashwinyue/next-chat/internal/model"

// ChatRepository 会话与消息数据访问接口
// 接口定义使 Service 层可以轻松 mock 进行单元测试
type ChatRepository interface {
	// 会话操作
	CreateSession(session *model.ChatSession) error
	GetSessionByID(id string) (*model.ChatSession, error)
	ListSessions(offset, limit int) ([]*model.ChatSession, error)
	UpdateSession(session *model.ChatSession) error
	DeleteSession(id string) error

	// 消息操作，position 为会话内从 0 开始的序号
	AppendMessage(msg *model.ChatMessage) error
	GetMessagesBySessionID(sessionID string) ([]*model.ChatMessage, error)
	GetMessageAt(sessionID string, position int) (*model.ChatMessage, error)
	TruncateMessagesFrom(sessionID string, position int) error
	CountMessages(sessionID string) (int64, error)
}

// SettingsRepository 设置数据访问接口
type SettingsRepository interface {
	GetMostRecent() (*model.Settings, error)
	Save(settings *model.Settings) error
}

// DocumentRepository 文档元数据访问接口
type DocumentRepository interface {
	Create(doc *model.Document) error
	GetByID(id string) (*model.Document, error)
	List(offset, limit int) ([]*model.Document, error)
	Delete(id string) error
}

var (
	_ ChatRepository     = (*chatRepositoryImpl)(nil)
	_ SettingsRepository = (*settingsRepositoryImpl)(nil)
	_ DocumentRepository = (*documentRepositoryImpl)(nil)
)
