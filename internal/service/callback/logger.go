// Package callback 提供 Eino 回调日志，观察生成管线中模型与工具的执行
package callback

import (
	"context"
	"log"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/schema"
)

type startTimeKey struct{}

// Logger 日志回调处理器，记录模型与工具调用的耗时和错误
type Logger struct {
	Verbose bool // 是否记录每次组件执行的开始与结束
}

// NewLogger 创建日志回调处理器
func NewLogger(verbose bool) *Logger {
	return &Logger{Verbose: verbose}
}

// OnStart 组件执行开始时调用
func (l *Logger) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if l.Verbose {
		log.Printf("[eino] start name=%s component=%s", info.Name, info.Component)
	}
	return context.WithValue(ctx, startTimeKey{}, time.Now())
}

// OnEnd 组件执行成功结束时调用
func (l *Logger) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	if l.Verbose {
		log.Printf("[eino] end name=%s component=%s elapsed=%v",
			info.Name, info.Component, l.elapsed(ctx))
	}
	return ctx
}

// OnError 组件执行出错时调用，无论是否启用详细日志都记录
func (l *Logger) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	log.Printf("[eino] error name=%s component=%s elapsed=%v error=%v",
		info.Name, info.Component, l.elapsed(ctx), err)
	return ctx
}

// OnStartWithStreamInput 流式输入开始时调用
func (l *Logger) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	if l.Verbose {
		log.Printf("[eino] stream start name=%s component=%s", info.Name, info.Component)
	}
	return context.WithValue(ctx, startTimeKey{}, time.Now())
}

// OnEndWithStreamOutput 流式输出结束时调用
func (l *Logger) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	if l.Verbose {
		log.Printf("[eino] stream end name=%s component=%s elapsed=%v",
			info.Name, info.Component, l.elapsed(ctx))
	}
	return ctx
}

func (l *Logger) elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start).Round(time.Millisecond)
}

// SetupGlobalCallbacks 注册全局回调
func SetupGlobalCallbacks(verbose bool) {
	callbacks.AppendGlobalHandlers(NewLogger(verbose))
}
