package types

import "context"

type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxTenantID      ContextKey = "ctx_tenant_id"
	CtxEnvironmentID ContextKey = "ctx_environment_id"
	CtxUserID        ContextKey = "ctx_user_id"
)

func GetRequestID(ctx context.Context) string {
	return ctxValueString(ctx, CtxRequestID)
}

func GetTenantID(ctx context.Context) string {
	return ctxValueString(ctx, CtxTenantID)
}

func GetEnvironmentID(ctx context.Context) string {
	return ctxValueString(ctx, CtxEnvironmentID)
}

func GetUserID(ctx context.Context) string {
	return ctxValueString(ctx, CtxUserID)
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func ctxValueString(ctx context.Context, key ContextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
