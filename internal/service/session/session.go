// Package session 管理进行中的生成流，保证每个会话同一时刻只有一次生成
package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/next-chat/internal/service/types"
)

const (
	// 生成状态在 Redis 中的过期时间，异常退出后自动解锁
	generationTTL = 10 * time.Minute
	// Redis key 前缀
	generationKeyPrefix = "generation:"
)

// Manager 活跃生成管理器
type Manager struct {
	mu     sync.Mutex
	active map[string]*ActiveStream
	redis  *redis.Client
}

// ActiveStream 进行中的一次生成
type ActiveStream struct {
	SessionID  string
	CancelFunc context.CancelFunc
	CreatedAt  time.Time

	mu      sync.Mutex
	content strings.Builder
}

// NewManager 创建管理器，redisClient 可以为 nil（仅进程内状态）
func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{
		active: make(map[string]*ActiveStream),
		redis:  redisClient,
	}
}

// Register 为会话注册一次生成。
// 会话已有进行中的生成时返回 ErrGenerationInProgress。
func (m *Manager) Register(ctx context.Context, sessionID string, cancel context.CancelFunc) (*ActiveStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[sessionID]; ok {
		return nil, types.ErrGenerationInProgress
	}

	stream := &ActiveStream{
		SessionID:  sessionID,
		CancelFunc: cancel,
		CreatedAt:  time.Now(),
	}
	m.active[sessionID] = stream

	if m.redis != nil {
		key := generationKeyPrefix + sessionID
		if err := m.redis.Set(ctx, key, "running", generationTTL).Err(); err != nil {
			log.Printf("Warning: failed to mark generation in redis: %v", err)
		}
	}
	return stream, nil
}

// Unregister 结束会话的生成并清理状态
func (m *Manager) Unregister(ctx context.Context, sessionID string) {
	m.mu.Lock()
	delete(m.active, sessionID)
	m.mu.Unlock()

	if m.redis != nil {
		key := generationKeyPrefix + sessionID
		if err := m.redis.Del(ctx, key).Err(); err != nil {
			log.Printf("Warning: failed to clear generation in redis: %v", err)
		}
	}
}

// Cancel 取消会话进行中的生成，没有活跃生成时返回 false
func (m *Manager) Cancel(sessionID string) bool {
	m.mu.Lock()
	stream, ok := m.active[sessionID]
	m.mu.Unlock()

	if !ok {
		return false
	}
	if stream.CancelFunc != nil {
		stream.CancelFunc()
	}
	return true
}

// IsActive 判断会话是否有进行中的生成
func (m *Manager) IsActive(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[sessionID]
	return ok
}

// AppendChunk 记录已经流出的内容片段
func (s *ActiveStream) AppendChunk(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content.WriteString(chunk)
}

// Content 返回目前已流出的完整内容
func (s *ActiveStream) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.String()
}
