package service

import (
	"context"

	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/model"
)

// Guard resolves a session token to the account it was issued for.
type Guard struct {
	manager   model.TokenManager
	userStore model.UserStore
	logger    *logger.Logger
}

func NewGuard(manager model.TokenManager, userStore model.UserStore, logger *logger.Logger) *Guard {
	return &Guard{manager: manager, userStore: userStore, logger: logger}
}

// Authenticate fails closed: every failure past the missing-token check is
// reported as the same AuthenticationError.
func (g *Guard) Authenticate(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, apierrors.NewErrMissingSessionToken()
	}

	userID, err := g.manager.ParseAccessToken(token)
	if err != nil {
		g.logger.Debug("Guard: rejected session token",
			"error", err.Error())
		return model.User{}, apierrors.NewErrInvalidSessionToken()
	}

	user, err := g.userStore.GetByID(ctx, userID)
	if err != nil {
		g.logger.Warn("Guard: session account lookup failed",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, apierrors.NewErrInvalidSessionToken()
	}

	return user, nil
}
