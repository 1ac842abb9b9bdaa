package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-identity/internal/model"
)

type userKey struct{}

// Manager stores the authenticated account in a request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a copy of ctx carrying user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext returns the account set by SetUserToContext.
// Contexts without one, or with a zero account, report false.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey{}).(model.User)
	if !ok || user.ID == uuid.Nil {
		return model.User{}, false
	}

	return user, true
}
