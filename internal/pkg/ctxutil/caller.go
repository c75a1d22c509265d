package ctxutil

import "context"

// callerKeyType 使用私有类型避免与其他 context key 冲突
type callerKeyType struct{}

var callerKey = callerKeyType{}

// WithCaller 将调用方名称注入到 context 中，由认证中间件在验证 Token 后调用
func WithCaller(ctx context.Context, caller string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerKey, caller)
}

// GetCaller 从 context 中解析调用方名称
func GetCaller(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	caller, ok := ctx.Value(callerKey).(string)
	if !ok || caller == "" {
		return "", false
	}
	return caller, true
}
