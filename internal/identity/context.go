package identity

import "context"

type ctxKey string

const accountKey ctxKey = "leadhook.account_id"

// WithAccountID stores the authenticated account id in context.
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, accountKey, accountID)
}

// AccountIDFromContext extracts the account id if present.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	val := ctx.Value(accountKey)
	if val == nil {
		return 0, false
	}
	accountID, ok := val.(int64)
	return accountID, ok && accountID != 0
}
