package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-chat/internal/handler"
	"github.com/ashwinyue/next-chat/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Chat 聊天
		chats := v1.Group("/chats")
		{
			chats.POST("", h.Chat.CreateSession)
			chats.GET("", h.Chat.ListSessions)
			chats.GET("/:id", h.Chat.GetSession)
			chats.PUT("/:id", h.Chat.UpdateSession)
			chats.DELETE("/:id", h.Chat.DeleteSession)
			chats.GET("/:id/messages", h.Chat.GetMessages)
			chats.POST("/:id/messages", h.Chat.SendMessage)
			chats.PUT("/:id/messages/:index", h.Chat.EditMessage)
			chats.POST("/:id/messages/:index/regenerate", h.Chat.RegenerateMessage)
			chats.POST("/:id/cancel", h.Chat.CancelGeneration)
		}

		// 无会话时直接发消息，服务端自动建会话
		v1.POST("/messages", h.Chat.SendMessage)

		// Settings 设置
		settings := v1.Group("/settings")
		{
			settings.GET("", h.Settings.GetSettings)
			settings.PATCH("", h.Settings.UpdateSettings)
			settings.POST("/reset", h.Settings.ResetSettings)
			settings.POST("/refresh-models", h.Settings.RefreshModels)
		}

		// Document 附件文档
		docs := v1.Group("/documents")
		{
			docs.POST("", h.Document.Upload)
			docs.POST("/url", h.Document.UploadURL)
			docs.GET("", h.Document.ListDocuments)
			docs.GET("/:id", h.Document.GetDocument)
			docs.GET("/:id/content", h.Document.GetContent)
			docs.GET("/:id/text", h.Document.GetText)
			docs.DELETE("/:id", h.Document.DeleteDocument)
		}

		// Model 模型目录
		models := v1.Group("/models")
		{
			models.GET("/chat", h.Model.ListChatModels)
			models.GET("/embedding", h.Model.ListEmbeddingModels)
		}

		// Tool 工具
		v1.GET("/tools", h.Model.ListTools)
	}

	return r
}
