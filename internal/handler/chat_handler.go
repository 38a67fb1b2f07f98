package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-chat/internal/service"
	"github.com/ashwinyue/next-chat/internal/service/chat"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// CreateSession 创建会话
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req chat.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.svc.Chat.CreateSession(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	created(c, session)
}

// GetSession 获取会话
func (h *ChatHandler) GetSession(c *gin.Context) {
	session, err := h.svc.Chat.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, session)
}

// ListSessions 列出会话
func (h *ChatHandler) ListSessions(c *gin.Context) {
	page, size := getPagination(c)

	sessions, err := h.svc.Chat.ListSessions(c.Request.Context(), page, size)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, sessions)
}

// UpdateSession 更新会话配置
func (h *ChatHandler) UpdateSession(c *gin.Context) {
	var req chat.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.svc.Chat.UpdateSession(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, session)
}

// DeleteSession 删除会话
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.svc.Chat.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMessages 获取会话消息
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.svc.Chat.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, messages)
}

// SendMessage 发送消息并以 SSE 流式返回生成事件
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		req.SessionID = id
	}

	result, err := h.svc.Chat.Chat(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	h.streamEvents(c, result)
}

// EditMessage 编辑指定序号的用户消息并重新生成
func (h *ChatHandler) EditMessage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, err)
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Chat.Edit(c.Request.Context(), c.Param("id"), index, req.Content)
	if err != nil {
		errorResponse(c, err)
		return
	}

	h.streamEvents(c, result)
}

// RegenerateMessage 重新生成指定序号的助手消息
func (h *ChatHandler) RegenerateMessage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Chat.Regenerate(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		errorResponse(c, err)
		return
	}

	h.streamEvents(c, result)
}

// CancelGeneration 取消进行中的生成
func (h *ChatHandler) CancelGeneration(c *gin.Context) {
	if !h.svc.Chat.Cancel(c.Param("id")) {
		success(c, gin.H{"cancelled": false})
		return
	}

	success(c, gin.H{"cancelled": true})
}

// streamEvents 把生成事件写为 SSE 流
func (h *ChatHandler) streamEvents(c *gin.Context, result *chat.Result) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Session-ID", result.SessionID)

	for event := range result.Events {
		select {
		case <-c.Request.Context().Done():
			return
		default:
			c.SSEvent("", event)
			c.Writer.Flush()
		}

		if event.Type == chat.EventTypeEnd || event.Type == chat.EventTypeError {
			return
		}
	}
}
