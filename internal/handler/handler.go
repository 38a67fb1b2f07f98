package handler

import (
	"github.com/ashwinyue/next-chat/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Chat     *ChatHandler
	Settings *SettingsHandler
	Document *DocumentHandler
	Model    *ModelHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:     NewChatHandler(svc),
		Settings: NewSettingsHandler(svc),
		Document: NewDocumentHandler(svc),
		Model:    NewModelHandler(svc),
	}
}
