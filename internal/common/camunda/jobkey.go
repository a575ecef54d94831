package camunda

import "context"

type jobKeyCtx struct{}

// WithJobKey marks ctx as running the job with the given key.
func WithJobKey(ctx context.Context, key int64) context.Context {
	return context.WithValue(ctx, jobKeyCtx{}, key)
}

// JobKeyFromContext returns the key of the job ctx runs, if any.
func JobKeyFromContext(ctx context.Context) (int64, bool) {
	key, ok := ctx.Value(jobKeyCtx{}).(int64)
	return key, ok
}
