package service

import (
	"context"
	"fmt"
	"log"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/next-chat/internal/config"
	"github.com/ashwinyue/next-chat/internal/registry"
	"github.com/ashwinyue/next-chat/internal/repository"
	"github.com/ashwinyue/next-chat/internal/service/callback"
	"github.com/ashwinyue/next-chat/internal/service/chat"
	"github.com/ashwinyue/next-chat/internal/service/document"
	"github.com/ashwinyue/next-chat/internal/service/file"
	"github.com/ashwinyue/next-chat/internal/service/provider"
	"github.com/ashwinyue/next-chat/internal/service/session"
	"github.com/ashwinyue/next-chat/internal/service/settings"
)

// Services 服务集合
type Services struct {
	Chat     *chat.Service
	Document *document.Service
	Settings *settings.Service

	Config     *config.Config
	Registry   *registry.Registry
	SessionMgr *session.Manager

	// Eino 组件（直接使用 eino 类型，无封装）
	AllTools []einotool.BaseTool
}

// NewServices 创建所有服务
// 参考 eino-examples，使用简单的 newXxx() 函数直接初始化 eino 组件
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	ctx := context.Background()

	callback.SetupGlobalCallbacks(cfg.App.Debug)

	reg := registry.New()
	settingsSvc := settings.NewService(repo.Settings, reg)
	resolver := provider.NewResolver(reg, settingsSvc)

	// 启动时按已保存的设置刷新模型目录（含 Ollama 探测）
	if _, err := settingsSvc.Get(ctx); err != nil {
		log.Printf("Warning: failed to load settings: %v", err)
	}

	storage, err := file.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create file storage: %w", err)
	}
	documentSvc := document.NewService(repo.Document, storage)

	sessionMgr := session.NewManager(redisClient)

	// 创建 Embedding 器（知识检索用，失败时降级为无检索）
	embedder := newEmbedder(ctx, settingsSvc, resolver)

	// 创建 ES8 Retriever
	retriever := newES8Retriever(ctx, cfg, embedder)

	// 初始化工具
	allTools := newTools(ctx, retriever)
	log.Printf("Initialized %d tools", len(allTools))

	chatSvc := chat.NewService(repo.Chat, settingsSvc, resolver, documentSvc, sessionMgr, allTools)

	return &Services{
		Chat:     chatSvc,
		Document: documentSvc,
		Settings: settingsSvc,

		Config:     cfg,
		Registry:   reg,
		SessionMgr: sessionMgr,

		AllTools: allTools,
	}, nil
}
