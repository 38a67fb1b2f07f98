// Package chat 实现会话编排：会话管理、流式生成、编辑与重新生成
package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/registry"
	"github.com/ashwinyue/next-chat/internal/repository"
	"github.com/ashwinyue/next-chat/internal/service/attachment"
	"github.com/ashwinyue/next-chat/internal/service/session"
	"github.com/ashwinyue/next-chat/internal/service/types"
)

// ModelResolver 将模型标识解析为可调用的客户端
type ModelResolver interface {
	BuildChatModel(ctx context.Context, modelID, effort string) (einomodel.ToolCallingChatModel, *registry.ChatModel, error)
	BuildEmbedder(ctx context.Context, modelID string) (embedding.Embedder, error)
}

// SettingsSource 提供当前设置
type SettingsSource interface {
	Get(ctx context.Context) (*model.Settings, error)
}

// AttachmentLoader 加载附件文档内容
type AttachmentLoader interface {
	GetContent(ctx context.Context, id string) (*model.Document, []byte, error)
	ExtractText(ctx context.Context, id string) (string, error)
}

// Service 聊天服务
type Service struct {
	repo     repository.ChatRepository
	settings SettingsSource
	resolver ModelResolver
	docs     AttachmentLoader
	sessions *session.Manager
	allTools []tool.BaseTool
}

// NewService 创建聊天服务
func NewService(repo repository.ChatRepository, settings SettingsSource, resolver ModelResolver, docs AttachmentLoader, sessions *session.Manager, allTools []tool.BaseTool) *Service {
	return &Service{
		repo:     repo,
		settings: settings,
		resolver: resolver,
		docs:     docs,
		sessions: sessions,
		allTools: allTools,
	}
}

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	Name            string   `json:"name"`
	Model           string   `json:"model"`
	EmbeddingModel  string   `json:"embedding_model"`
	EnabledTools    []string `json:"enabled_tools"`
	ReasoningEffort string   `json:"reasoning_effort"`
}

// CreateSession 创建会话，未指定的字段取全局设置的默认值
func (s *Service) CreateSession(ctx context.Context, req *CreateSessionRequest) (*model.ChatSession, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	sess := &model.ChatSession{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Model:           req.Model,
		EmbeddingModel:  req.EmbeddingModel,
		EnabledTools:    model.StringList(req.EnabledTools),
		ReasoningEffort: req.ReasoningEffort,
	}
	if sess.Name == "" {
		sess.Name = "New Chat"
	}
	if sess.Model == "" {
		sess.Model = settings.DefaultChatModel
	}
	if sess.EmbeddingModel == "" {
		sess.EmbeddingModel = settings.DefaultEmbeddingModel
	}

	if err := s.repo.CreateSession(sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// GetSession 获取会话及其消息
func (s *Service) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	sess, err := s.repo.GetSessionByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrSessionNotFound, id)
	}
	return sess, nil
}

// ListSessions 列出会话
func (s *Service) ListSessions(ctx context.Context, page, size int) ([]*model.ChatSession, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return s.repo.ListSessions((page-1)*size, size)
}

// UpdateSessionRequest 更新会话请求，nil 字段保持不变
type UpdateSessionRequest struct {
	Name            *string   `json:"name"`
	Model           *string   `json:"model"`
	EmbeddingModel  *string   `json:"embedding_model"`
	EnabledTools    *[]string `json:"enabled_tools"`
	ReasoningEffort *string   `json:"reasoning_effort"`
}

// UpdateSession 更新会话配置
func (s *Service) UpdateSession(ctx context.Context, id string, req *UpdateSessionRequest) (*model.ChatSession, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sess.Name = *req.Name
	}
	if req.Model != nil {
		sess.Model = *req.Model
	}
	if req.EmbeddingModel != nil {
		sess.EmbeddingModel = *req.EmbeddingModel
	}
	if req.EnabledTools != nil {
		sess.EnabledTools = model.StringList(*req.EnabledTools)
	}
	if req.ReasoningEffort != nil {
		sess.ReasoningEffort = *req.ReasoningEffort
	}

	if err := s.repo.UpdateSession(sess); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return sess, nil
}

// DeleteSession 删除会话及其消息
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if s.sessions.IsActive(id) {
		return types.ErrGenerationInProgress
	}
	return s.repo.DeleteSession(id)
}

// GetMessages 获取会话消息
func (s *Service) GetMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.repo.GetMessagesBySessionID(sessionID)
}

// Request 一次生成请求
type Request struct {
	SessionID     string   `json:"session_id"`
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachment_ids"`
}

// Result 生成结果，Events 在生成结束或取消后关闭
type Result struct {
	SessionID string
	Events    <-chan Event
}

// Chat 在会话中发起一次流式生成。
// SessionID 为空时先用默认配置创建会话。
// 同一会话已有进行中的生成时返回 ErrGenerationInProgress。
func (s *Service) Chat(ctx context.Context, req *Request) (*Result, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}

	var sess *model.ChatSession
	var err error
	isNew := false
	if req.SessionID == "" {
		sess, err = s.CreateSession(ctx, &CreateSessionRequest{})
		isNew = true
	} else {
		sess, err = s.GetSession(ctx, req.SessionID)
	}
	if err != nil {
		return nil, err
	}

	chatModel, desc, err := s.resolver.BuildChatModel(ctx, sess.Model, sess.ReasoningEffort)
	if err != nil {
		return nil, err
	}

	// 向量模型仅用于知识检索，失败不阻断对话
	if sess.EmbeddingModel != "" {
		if _, err := s.resolver.BuildEmbedder(ctx, sess.EmbeddingModel); err != nil {
			log.Printf("Warning: embedding model %s unavailable: %v", sess.EmbeddingModel, err)
		}
	}

	inputs, err := s.loadAttachments(ctx, req.AttachmentIDs)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithCancel(ctx)
	active, err := s.sessions.Register(ctx, sess.ID, cancel)
	if err != nil {
		cancel()
		return nil, err
	}

	history, err := s.repo.GetMessagesBySessionID(sess.ID)
	if err != nil {
		s.sessions.Unregister(ctx, sess.ID)
		cancel()
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	// 附件消息先于输入消息持久化
	if len(inputs) > 0 {
		blocks := attachment.BuildBlocks(inputs, desc)
		if len(blocks) > 0 {
			if err := s.appendMessage(sess.ID, &model.ChatMessage{
				Role:   model.RoleHuman,
				Blocks: blocksToList(blocks),
			}); err != nil {
				s.sessions.Unregister(ctx, sess.ID)
				cancel()
				return nil, err
			}
		}
	}
	if err := s.appendMessage(sess.ID, &model.ChatMessage{
		Role:    model.RoleHuman,
		Content: req.Content,
	}); err != nil {
		s.sessions.Unregister(ctx, sess.ID)
		cancel()
		return nil, err
	}

	// 构建发给模型的消息序列
	messages := historyToSchema(history)
	if parts := attachment.BuildParts(inputs, desc); len(parts) > 0 {
		messages = append(messages, &schema.Message{Role: schema.User, MultiContent: parts})
	}
	messages = append(messages, schema.UserMessage(req.Content))

	agent, err := s.buildAgent(ctx, chatModel, sess)
	if err != nil {
		s.sessions.Unregister(ctx, sess.ID)
		cancel()
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	events := make(chan Event, 16)
	go s.run(genCtx, cancel, active, agent, messages, sess, isNew, req.Content, events)

	return &Result{SessionID: sess.ID, Events: events}, nil
}

// Cancel 取消会话进行中的生成
func (s *Service) Cancel(sessionID string) bool {
	return s.sessions.Cancel(sessionID)
}

// Edit 修改指定序号的用户消息：截断该序号及之后的全部消息，再以新内容发起生成
func (s *Service) Edit(ctx context.Context, sessionID string, index int, content string) (*Result, error) {
	if s.sessions.IsActive(sessionID) {
		return nil, types.ErrGenerationInProgress
	}

	msg, err := s.repo.GetMessageAt(sessionID, index)
	if err != nil {
		return nil, fmt.Errorf("message not found at index %d: %w", index, err)
	}
	if msg.Role != model.RoleHuman {
		return nil, fmt.Errorf("message at index %d is not a user message", index)
	}

	if err := s.repo.TruncateMessagesFrom(sessionID, index); err != nil {
		return nil, fmt.Errorf("failed to truncate messages: %w", err)
	}

	return s.Chat(ctx, &Request{SessionID: sessionID, Content: content})
}

// Regenerate 重新生成：截断指定序号的用户消息及其后的全部消息，再以原内容重新提交
func (s *Service) Regenerate(ctx context.Context, sessionID string, index int) (*Result, error) {
	if s.sessions.IsActive(sessionID) {
		return nil, types.ErrGenerationInProgress
	}

	msg, err := s.repo.GetMessageAt(sessionID, index)
	if err != nil {
		return nil, fmt.Errorf("message not found at index %d: %w", index, err)
	}
	if msg.Role != model.RoleHuman {
		return nil, fmt.Errorf("message at index %d is not a user message", index)
	}
	if msg.Content == "" {
		return nil, fmt.Errorf("message at index %d has no content to resubmit", index)
	}

	if err := s.repo.TruncateMessagesFrom(sessionID, index); err != nil {
		return nil, fmt.Errorf("failed to truncate messages: %w", err)
	}

	return s.Chat(ctx, &Request{SessionID: sessionID, Content: msg.Content})
}

// ChatChain 单次非流式调用，用于命名等内部任务
func (s *Service) ChatChain(ctx context.Context, modelID, systemPrompt, content, effort string) (string, error) {
	chatModel, _, err := s.resolver.BuildChatModel(ctx, modelID, effort)
	if err != nil {
		return "", err
	}

	var messages []*schema.Message
	if systemPrompt != "" {
		messages = append(messages, schema.SystemMessage(systemPrompt))
	}
	messages = append(messages, schema.UserMessage(content))

	resp, err := chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate failed: %w", err)
	}
	return resp.Content, nil
}

// loadAttachments 加载附件内容，图片等富媒体同时保留原始字节与文本回退
func (s *Service) loadAttachments(ctx context.Context, ids []string) ([]attachment.Input, error) {
	inputs := make([]attachment.Input, 0, len(ids))
	for _, id := range ids {
		doc, data, err := s.docs.GetContent(ctx, id)
		if err != nil {
			return nil, err
		}

		text, err := s.docs.ExtractText(ctx, id)
		if err != nil {
			log.Printf("Warning: failed to extract text from attachment %s: %v", id, err)
			text = ""
		}

		mime := doc.ContentType
		if mime == "" {
			mime = "application/octet-stream"
		}
		inputs = append(inputs, attachment.Input{
			Doc:  doc,
			Data: data,
			MIME: mime,
			Text: text,
		})
	}
	return inputs, nil
}

// appendMessage 持久化一条消息
func (s *Service) appendMessage(sessionID string, msg *model.ChatMessage) error {
	msg.ID = uuid.New().String()
	msg.SessionID = sessionID
	if err := s.repo.AppendMessage(msg); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// touchSession 更新会话时间戳
func (s *Service) touchSession(sess *model.ChatSession) {
	sess.UpdatedAt = time.Now()
	if err := s.repo.UpdateSession(sess); err != nil {
		log.Printf("Warning: failed to update session %s: %v", sess.ID, err)
	}
}

// historyToSchema 将持久化消息转为模型输入，附件消息取其文本块
func historyToSchema(messages []*model.ChatMessage) []*schema.Message {
	result := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		content := msg.Content
		if content == "" && len(msg.Blocks) > 0 {
			content = textFromBlocks(msg.Blocks)
		}
		if content == "" {
			continue
		}

		switch msg.Role {
		case model.RoleHuman:
			result = append(result, schema.UserMessage(content))
		case model.RoleAI:
			result = append(result, schema.AssistantMessage(content, nil))
		}
	}
	return result
}

// textFromBlocks 拼接内容块中的文本部分
func textFromBlocks(blocks model.JSONList) string {
	var texts []string
	for _, raw := range blocks {
		block, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if block["type"] == "text" {
			if text, ok := block["text"].(string); ok && text != "" {
				texts = append(texts, text)
			}
		}
	}
	return strings.Join(texts, "\n\n")
}

// blocksToList 转换为持久化的 JSON 数组
func blocksToList(blocks []model.JSON) model.JSONList {
	list := make(model.JSONList, 0, len(blocks))
	for _, b := range blocks {
		list = append(list, map[string]interface{}(b))
	}
	return list
}
