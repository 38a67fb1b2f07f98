package chat

import "github.com/cloudwego/eino/schema"

// 流式事件类型
const (
	EventTypeStream    = "stream"     // 助手内容片段
	EventTypeToolStart = "tool_start" // 工具开始执行
	EventTypeToolEnd   = "tool_end"   // 工具执行完成
	EventTypeEnd       = "end"        // 生成正常结束
	EventTypeError     = "error"      // 生成过程中的错误
)

// Event 一次生成过程中推送给客户端的事件
type Event struct {
	Type    string             `json:"type"`
	Content string             `json:"content,omitempty"`
	Name    string             `json:"name,omitempty"`   // 工具名
	Input   string             `json:"input,omitempty"`  // 工具调用参数
	Output  string             `json:"output,omitempty"` // 工具输出
	Usage   *schema.TokenUsage `json:"usage,omitempty"`
}
