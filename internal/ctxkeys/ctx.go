package ctxkeys

import (
	"context"

	"github.com/celosave/savings/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AddressKey   contextKey = "address"
	RequestIDKey contextKey = "request_id"
	ConfigKey    contextKey = "config"
)

// Address is the authenticated caller's lowercase wallet address, or "".
func Address(ctx context.Context) string {
	addr, _ := ctx.Value(AddressKey).(string)
	return addr
}

func WithAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, AddressKey, addr)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Config returns the sanitized config, or nil outside a request.
func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
