package chat

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/cloudwego/eino/adk"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/service/session"
)

const (
	defaultInstruction   = "You are a helpful assistant."
	defaultMaxIterations = 10
)

// buildAgent 按会话配置创建 eino Agent
func (s *Service) buildAgent(ctx context.Context, chatModel einomodel.ToolCallingChatModel, sess *model.ChatSession) (*adk.ChatModelAgent, error) {
	selected := s.selectTools(ctx, sess.EnabledTools)

	cfg := &adk.ChatModelAgentConfig{
		Name:          "chat",
		Description:   "General purpose chat agent",
		Instruction:   defaultInstruction,
		Model:         chatModel,
		MaxIterations: defaultMaxIterations,
	}
	if len(selected) > 0 {
		cfg.ToolsConfig = adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools: selected,
			},
		}
	}

	return adk.NewChatModelAgent(ctx, cfg)
}

// selectTools 按会话启用列表筛选工具，未启用任何工具时返回空
func (s *Service) selectTools(ctx context.Context, enabled model.StringList) []tool.BaseTool {
	if len(enabled) == 0 {
		return nil
	}

	selected := make([]tool.BaseTool, 0, len(enabled))
	for _, t := range s.allTools {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		if enabled.Contains(info.Name) {
			selected = append(selected, t)
		}
	}
	return selected
}

// emit 发送事件，上下文已取消时丢弃以免生产者阻塞在无人消费的通道上
func emit(ctx context.Context, out chan<- Event, e Event) {
	select {
	case out <- e:
	case <-ctx.Done():
	}
}

// run 消费 Agent 事件流：透传内容片段、持久化工具与助手消息。
// 取消时不写助手消息也不发 end 事件，已持久化的用户消息保留。
func (s *Service) run(ctx context.Context, cancel context.CancelFunc, active *session.ActiveStream, agent *adk.ChatModelAgent, messages []*schema.Message, sess *model.ChatSession, isNew bool, userInput string, out chan<- Event) {
	defer close(out)
	defer s.sessions.Unregister(context.Background(), sess.ID)
	defer cancel()

	iter := agent.Run(ctx, &adk.AgentInput{
		Messages:        messages,
		EnableStreaming: true,
	})

	var answer strings.Builder
	var usage *schema.TokenUsage
	aborted := false

	// 记录模型发出的工具调用参数，供 tool_start 事件与 Tool 消息落库使用
	toolArgs := make(map[string]string)
	recordToolCalls := func(calls []schema.ToolCall) {
		for _, tc := range calls {
			if tc.ID != "" {
				toolArgs[tc.ID] = tc.Function.Arguments
			}
			if tc.Function.Name != "" {
				toolArgs[tc.Function.Name] = tc.Function.Arguments
			}
		}
	}

loop:
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}

		if event.Err != nil {
			if errors.Is(event.Err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				aborted = true
				break
			}
			emit(ctx, out, Event{Type: EventTypeError, Content: event.Err.Error()})
			continue
		}

		if event.Output != nil && event.Output.MessageOutput != nil {
			mo := event.Output.MessageOutput

			if mo.IsStreaming && mo.MessageStream != nil {
				var chunks []*schema.Message
				for {
					chunk, err := mo.MessageStream.Recv()
					if err == io.EOF {
						break
					}
					if err != nil {
						if ctx.Err() != nil {
							aborted = true
						} else {
							emit(ctx, out, Event{Type: EventTypeError, Content: err.Error()})
						}
						break
					}
					chunks = append(chunks, chunk)

					if mo.Role != schema.Tool && chunk.Content != "" {
						active.AppendChunk(chunk.Content)
						answer.WriteString(chunk.Content)
						emit(ctx, out, Event{Type: EventTypeStream, Content: chunk.Content})
					}
					if chunk.ResponseMeta != nil && chunk.ResponseMeta.Usage != nil {
						usage = chunk.ResponseMeta.Usage
					}
				}
				if aborted {
					break loop
				}
				if len(chunks) > 0 {
					full, err := schema.ConcatMessages(chunks)
					if err != nil {
						log.Printf("Warning: failed to concat stream chunks: %v", err)
						continue
					}
					recordToolCalls(full.ToolCalls)
					if mo.Role == schema.Tool {
						s.handleToolResult(ctx, out, sess.ID, mo.ToolName, full, toolArgs)
					}
				}
			} else if mo.Message != nil {
				switch mo.Role {
				case schema.Assistant:
					recordToolCalls(mo.Message.ToolCalls)
					if mo.Message.Content != "" {
						answer.Reset()
						answer.WriteString(mo.Message.Content)
						emit(ctx, out, Event{Type: EventTypeStream, Content: mo.Message.Content})
					}
					if mo.Message.ResponseMeta != nil && mo.Message.ResponseMeta.Usage != nil {
						usage = mo.Message.ResponseMeta.Usage
					}
				case schema.Tool:
					s.handleToolResult(ctx, out, sess.ID, mo.ToolName, mo.Message, toolArgs)
				}
			}
		}

		if event.Action != nil && event.Action.Exit {
			break
		}
	}

	if aborted || ctx.Err() != nil {
		log.Printf("generation cancelled for session %s", sess.ID)
		return
	}

	if err := s.appendMessage(sess.ID, &model.ChatMessage{
		Role:    model.RoleAI,
		Content: answer.String(),
	}); err != nil {
		emit(ctx, out, Event{Type: EventTypeError, Content: err.Error()})
		return
	}
	s.touchSession(sess)

	if isNew {
		s.nameSession(ctx, sess, userInput, answer.String())
	}

	emit(ctx, out, Event{Type: EventTypeEnd, Content: answer.String(), Usage: usage})
}

// handleToolResult 发出工具生命周期事件并落库工具消息
func (s *Service) handleToolResult(ctx context.Context, out chan<- Event, sessionID, toolName string, msg *schema.Message, toolArgs map[string]string) {
	input := toolArgs[msg.ToolCallID]
	if input == "" {
		input = toolArgs[toolName]
	}

	emit(ctx, out, Event{Type: EventTypeToolStart, Name: toolName, Input: input})
	emit(ctx, out, Event{Type: EventTypeToolEnd, Name: toolName, Output: msg.Content})
	s.persistToolMessage(sessionID, toolName, input, msg)
}

// persistToolMessage 持久化一条工具结果消息，调用参数记入 Metadata
func (s *Service) persistToolMessage(sessionID, toolName, input string, msg *schema.Message) {
	status := model.ToolStatusSuccess
	if strings.Contains(msg.Content, `"error"`) {
		status = model.ToolStatusError
	}

	row := &model.ChatMessage{
		Role:       model.RoleTool,
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
		ToolName:   toolName,
		ToolStatus: status,
	}
	if input != "" {
		row.Metadata = model.JSON{"input": input}
	}
	if err := s.appendMessage(sessionID, row); err != nil {
		log.Printf("Warning: failed to save tool message: %v", err)
	}
}
