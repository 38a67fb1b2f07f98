package repository

import (
	"gorm.io/gorm"

	"github.com/ashwinyue/next-chat/internal/model"
)

// chatRepositoryImpl 聊天数据访问
type chatRepositoryImpl struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天仓库
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepositoryImpl{db: db}
}

// CreateSession 创建会话
func (r *chatRepositoryImpl) CreateSession(session *model.ChatSession) error {
	return r.db.Create(session).Error
}

// GetSessionByID 获取会话，消息按会话内序号排序
func (r *chatRepositoryImpl) GetSessionByID(id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions 列出会话，最近更新的在前
func (r *chatRepositoryImpl) ListSessions(offset, limit int) ([]*model.ChatSession, error) {
	var sessions []*model.ChatSession
	err := r.db.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, err
}

// UpdateSession 更新会话
func (r *chatRepositoryImpl) UpdateSession(session *model.ChatSession) error {
	return r.db.Save(session).Error
}

// DeleteSession 删除会话及其全部消息
func (r *chatRepositoryImpl) DeleteSession(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChatMessage{}, "session_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatSession{}, "id = ?", id).Error
	})
}

// AppendMessage 追加消息，在事务内分配下一个会话内序号
func (r *chatRepositoryImpl) AppendMessage(msg *model.ChatMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ChatMessage{}).Where("session_id = ?", msg.SessionID).Count(&count).Error; err != nil {
			return err
		}
		msg.Position = int(count)
		return tx.Create(msg).Error
	})
}

// GetMessagesBySessionID 获取会话消息，按会话内序号排序
func (r *chatRepositoryImpl) GetMessagesBySessionID(sessionID string) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).Order("position ASC").Find(&messages).Error
	return messages, err
}

// GetMessageAt 获取会话中指定序号的消息
func (r *chatRepositoryImpl) GetMessageAt(sessionID string, position int) (*model.ChatMessage, error) {
	var message model.ChatMessage
	err := r.db.Where("session_id = ? AND position = ?", sessionID, position).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// TruncateMessagesFrom 删除会话中序号大于等于 position 的全部消息
func (r *chatRepositoryImpl) TruncateMessagesFrom(sessionID string, position int) error {
	return r.db.Delete(&model.ChatMessage{}, "session_id = ? AND position >= ?", sessionID, position).Error
}

// CountMessages 统计会话消息数
func (r *chatRepositoryImpl) CountMessages(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ChatMessage{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}
