package util

import (
	"context"
)

type key string

const (
	clientIPKey = key("x-forwarded-for")
	actorIDKey  = key("actor-id")
)

// Fields returns the request-scoped values this package stores in ctx,
// keyed the way they are written to logs.
func Fields(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"request_id": GetRequestID(ctx),
		"actor_id":   GetActorID(ctx),
		"client_ip":  GetClientIP(ctx),
	}
}

// WithClientIP returns a context with a client ip
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// WithActorID returns a context carrying the authenticated owner identity.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}

// WithRequestID returns a context with request id.
// A new id is generated when the provided one is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// GetClientIP returns client ip from context
// will return empty string if not present
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

// GetActorID returns the authenticated owner identity from context
// will return empty string if not present
func GetActorID(ctx context.Context) string {
	id, _ := ctx.Value(actorIDKey).(string)
	return id
}

// GetRequestID returns request id from context
// will return empty string if not present
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}
