package controllers

import (
	"context"
	"time"

	loader "github.com/bionicotaku/lingo-services-posts/internal/infrastructure/config_loader"
)

// HandlerType 表示 Handler 的语义类别，用于选择超时策略。
type HandlerType int

const (
	// HandlerTypeDefault 表示未显式区分的 Handler。
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand 表示写操作 Handler（创建、更新、删除）。
	HandlerTypeCommand
	// HandlerTypeQuery 表示只读查询 Handler。
	HandlerTypeQuery
)

// HandlerTimeouts 聚合不同类型 Handler 的超时策略。
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
}

const (
	fallbackDefaultTimeout = 5 * time.Second
	fallbackQueryTimeout   = 3 * time.Second
)

// BaseHandler 提供公共的超时能力，供具体 Handler 内嵌复用。
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler 构造基础 Handler，并为缺省值填充合理的回退策略。
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		if timeouts.Command > 0 {
			timeouts.Default = timeouts.Command
		} else if timeouts.Query > 0 {
			timeouts.Default = timeouts.Query
		} else {
			timeouts.Default = fallbackDefaultTimeout
		}
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	if timeouts.Query <= 0 {
		if timeouts.Default > 0 {
			timeouts.Query = timeouts.Default
		} else {
			timeouts.Query = fallbackQueryTimeout
		}
	}
	return &BaseHandler{timeouts: timeouts}
}

// NewBaseHandlerFromConfig 从 server.handlers 配置构造 BaseHandler。
func NewBaseHandlerFromConfig(cfg *loader.Server) *BaseHandler {
	if cfg == nil {
		return NewBaseHandler(HandlerTimeouts{})
	}
	return NewBaseHandler(HandlerTimeouts{
		Default: cfg.Handlers.DefaultTimeout.Duration,
		Command: cfg.Handlers.CommandTimeout.Duration,
		Query:   cfg.Handlers.QueryTimeout.Duration,
	})
}

// Timeouts 返回填充回退值后的超时策略。
func (h *BaseHandler) Timeouts() HandlerTimeouts {
	if h == nil {
		return HandlerTimeouts{}
	}
	return h.timeouts
}

// WithTimeout 根据 Handler 类型包装上下文，返回绑定超时的新 Context 与取消函数。
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = h.timeouts.Command
	case HandlerTypeQuery:
		timeout = h.timeouts.Query
	default:
		timeout = h.timeouts.Default
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
