package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ashwinyue/next-chat/internal/model"
)

const namingInstruction = `Generate a short title for the conversation below, at most six words. Respond with JSON only, in the form {"title": "..."}.`

// nameSession 在新会话的首轮结束后自动命名，失败只记录日志
func (s *Service) nameSession(ctx context.Context, sess *model.ChatSession, userInput, answer string) {
	conversation := fmt.Sprintf("User: %s\nAssistant: %s", userInput, answer)

	raw, err := s.ChatChain(ctx, sess.Model, namingInstruction, conversation, "")
	if err != nil {
		log.Printf("Warning: failed to name session %s: %v", sess.ID, err)
		return
	}

	// 模型返回的 JSON 可能不规范，先修复再解析
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		log.Printf("Warning: failed to repair naming response: %v", err)
		return
	}

	var parsed struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil || parsed.Title == "" {
		log.Printf("Warning: unusable naming response %q", raw)
		return
	}

	sess.Name = parsed.Title
	if err := s.repo.UpdateSession(sess); err != nil {
		log.Printf("Warning: failed to save session name: %v", err)
	}
}
