package server

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/google/uuid"
)

// HeaderRequestID 是请求标识的传输头。
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

type requestIDKey struct{}

// RequestID 确保每个请求都携带 X-Request-ID：沿用客户端传入值，缺失或过长时生成 UUID，
// 并在响应头中回写。
func RequestID() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req any) (any, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}
			id := strings.TrimSpace(tr.RequestHeader().Get(HeaderRequestID))
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			tr.ReplyHeader().Set(HeaderRequestID, id)
			return handler(context.WithValue(ctx, requestIDKey{}, id), req)
		}
	}
}

// RequestIDFromContext 读取 RequestID 中间件注入的标识。
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDValuer 将请求标识作为日志字段输出。
func RequestIDValuer() log.Valuer {
	return func(ctx context.Context) any {
		if ctx == nil {
			return ""
		}
		id, _ := RequestIDFromContext(ctx)
		return id
	}
}
