package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-chat/internal/service"
)

// ModelHandler 模型目录处理器
type ModelHandler struct {
	svc *service.Services
}

// NewModelHandler 创建模型目录处理器
func NewModelHandler(svc *service.Services) *ModelHandler {
	return &ModelHandler{svc: svc}
}

// ListChatModels 列出当前可用的对话模型
func (h *ModelHandler) ListChatModels(c *gin.Context) {
	success(c, h.svc.Registry.Current().ChatModels)
}

// ListEmbeddingModels 列出当前可用的向量模型
func (h *ModelHandler) ListEmbeddingModels(c *gin.Context) {
	success(c, h.svc.Registry.Current().EmbeddingModels)
}

// ListTools 列出可供会话启用的工具名称
func (h *ModelHandler) ListTools(c *gin.Context) {
	success(c, service.ListToolNames(c.Request.Context(), h.svc.AllTools))
}
