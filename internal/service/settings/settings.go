// Package settings 管理全局应用设置的读取与更新
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/registry"
	"github.com/ashwinyue/next-chat/internal/repository"
)

// Service 设置服务，保证读写串行并在模型来源变更后刷新模型目录
type Service struct {
	repo     repository.SettingsRepository
	registry *registry.Registry

	mu sync.Mutex
	// 上一次写入的 updated_at，用于保证时间戳严格递增
	lastUpdatedAt int64
}

// NewService 创建设置服务
func NewService(repo repository.SettingsRepository, reg *registry.Registry) *Service {
	return &Service{repo: repo, registry: reg}
}

// Get 获取当前设置，首次访问时写入默认设置并刷新模型目录
func (s *Service) Get(ctx context.Context) (*model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.GetMostRecent()
	if err == nil {
		if current.UpdatedAt > s.lastUpdatedAt {
			s.lastUpdatedAt = current.UpdatedAt
		}
		return current, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	defaults := model.DefaultSettings()
	defaults.ID = uuid.New().String()
	now := s.nextTimestamp()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now
	defaults.OllamaAvailable = s.registry.Refresh(ctx, defaults)

	if err := s.repo.Save(&defaults); err != nil {
		return nil, fmt.Errorf("failed to save default settings: %w", err)
	}
	return &defaults, nil
}

// Update 应用部分更新并返回完整的新设置。
// 修改到模型来源字段时会同步刷新模型目录并重新探测 Ollama。
func (s *Service) Update(ctx context.Context, patch model.SettingsPatch) (*model.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(*current)
	next.UpdatedAt = s.nextTimestamp()

	if patch.TouchesModelSources() {
		next.OllamaAvailable = s.registry.Refresh(ctx, next)
	}

	if err := s.repo.Save(&next); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return &next, nil
}

// Reset 将设置恢复为默认值，保留记录标识与创建时间
func (s *Service) Reset(ctx context.Context) (*model.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := model.DefaultSettings()
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.nextTimestamp()
	next.OllamaAvailable = s.registry.Refresh(ctx, next)

	if err := s.repo.Save(&next); err != nil {
		return nil, fmt.Errorf("failed to reset settings: %w", err)
	}
	return &next, nil
}

// RefreshModels 按当前设置重建模型目录，返回更新后的设置
func (s *Service) RefreshModels(ctx context.Context) (*model.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := *current
	next.OllamaAvailable = s.registry.Refresh(ctx, next)
	if next.OllamaAvailable != current.OllamaAvailable {
		next.UpdatedAt = s.nextTimestamp()
		if err := s.repo.Save(&next); err != nil {
			return nil, fmt.Errorf("failed to save settings: %w", err)
		}
	}
	return &next, nil
}

// nextTimestamp 返回严格递增的毫秒时间戳，调用方需持有 mu
func (s *Service) nextTimestamp() int64 {
	now := time.Now().UnixMilli()
	if now <= s.lastUpdatedAt {
		now = s.lastUpdatedAt + 1
	}
	s.lastUpdatedAt = now
	return now
}
