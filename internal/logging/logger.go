// Package logging defines the structured-logging interface used across the
// server, the HTTP layer and the admin CLI. The default implementation wraps
// log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are key-value pairs:
//
//	log.Info(ctx, "item created", "item_id", id, "user_id", userID)
//
// Pairs attached to ctx with ContextWith are logged as well.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

type ctxKey struct{}

// ContextWith returns a copy of ctx carrying key-value pairs for every log
// call made with it, e.g. the request id set by the HTTP middleware.
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev := contextArgs(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func contextArgs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	args, _ := ctx.Value(ctxKey{}).([]any)
	return args
}
