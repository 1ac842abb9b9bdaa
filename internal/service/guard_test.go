package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/mocks"
	"github.com/dtroode/storefront-identity/internal/model"
	"github.com/dtroode/storefront-identity/internal/testutil"
)

func TestGuard_Authenticate(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Name: "Ada", Role: model.RoleCustomer}

	tests := []struct {
		name        string
		token       string
		setup       func(tm *mocks.TokenManager, us *mocks.UserStore)
		wantMessage string
	}{
		{
			name:        "missing token",
			token:       "",
			setup:       func(*mocks.TokenManager, *mocks.UserStore) {},
			wantMessage: "you are not authenticated",
		},
		{
			name:  "invalid token",
			token: "garbage",
			setup: func(tm *mocks.TokenManager, _ *mocks.UserStore) {
				tm.On("ParseAccessToken", "garbage").Return(uuid.Nil, errors.New("token is malformed"))
			},
			wantMessage: "unauthorized",
		},
		{
			name:  "account gone",
			token: "valid",
			setup: func(tm *mocks.TokenManager, us *mocks.UserStore) {
				tm.On("ParseAccessToken", "valid").Return(user.ID, nil)
				us.On("GetByID", mock.Anything, user.ID).Return(model.User{}, model.ErrNotFound)
			},
			wantMessage: "unauthorized",
		},
		{
			name:  "store failure",
			token: "valid",
			setup: func(tm *mocks.TokenManager, us *mocks.UserStore) {
				tm.On("ParseAccessToken", "valid").Return(user.ID, nil)
				us.On("GetByID", mock.Anything, user.ID).Return(model.User{}, errors.New("connection reset"))
			},
			wantMessage: "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := mocks.NewTokenManager(t)
			us := mocks.NewUserStore(t)
			tt.setup(tm, us)

			g := NewGuard(tm, us, testutil.MakeNoopLogger())
			_, err := g.Authenticate(ctx, tt.token)
			require.Error(t, err)
			assert.Equal(t, apierrors.KindAuthentication, apierrors.KindOf(err))
			assert.Equal(t, tt.wantMessage, err.Error())
		})
	}

	t.Run("valid session", func(t *testing.T) {
		tm := mocks.NewTokenManager(t)
		us := mocks.NewUserStore(t)
		tm.On("ParseAccessToken", "valid").Return(user.ID, nil)
		us.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		got, err := NewGuard(tm, us, testutil.MakeNoopLogger()).Authenticate(ctx, "valid")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})
}
