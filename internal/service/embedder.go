package service

import (
	"context"
	"log"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/ashwinyue/next-chat/internal/service/provider"
	"github.com/ashwinyue/next-chat/internal/service/settings"
)

// newEmbedder 按全局设置的默认向量模型创建 Embedding 器。
// 未配置或创建失败时返回 nil，知识检索随之禁用。
func newEmbedder(ctx context.Context, settingsSvc *settings.Service, resolver *provider.Resolver) embedding.Embedder {
	current, err := settingsSvc.Get(ctx)
	if err != nil {
		log.Printf("Warning: failed to load settings for embedder: %v", err)
		return nil
	}
	if current.DefaultEmbeddingModel == "" {
		return nil
	}

	embedder, err := resolver.BuildEmbedder(ctx, current.DefaultEmbeddingModel)
	if err != nil {
		log.Printf("Warning: failed to create embedder %s: %v", current.DefaultEmbeddingModel, err)
		return nil
	}
	return embedder
}
