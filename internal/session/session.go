package session

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a request. Its UserID is the owner id
// every product and transaction is scoped by.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by the auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}
