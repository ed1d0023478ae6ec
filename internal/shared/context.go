package shared

import "context"

type accountContextKey struct{}

// ContextWithAccountID stores the authenticated account id in context.
func ContextWithAccountID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, accountContextKey{}, id)
}

// AccountIDFromContext extracts the authenticated account id from context.
// The second return value is false when no account is attached.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountContextKey{}).(int64)
	return id, ok
}
