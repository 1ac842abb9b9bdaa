package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpcontext "github.com/dtroode/storefront-identity/internal/api/http/context"
	"github.com/dtroode/storefront-identity/internal/api/http/handler"
	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/mocks"
	"github.com/dtroode/storefront-identity/internal/model"
	"github.com/dtroode/storefront-identity/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthenticate_RequireSession(t *testing.T) {
	t.Parallel()

	user := model.User{ID: uuid.New(), Email: "ada@x.com", Role: model.RoleCustomer}

	tests := []struct {
		name       string
		cookie     string
		header     string
		wantToken  string
		guardUser  model.User
		guardErr   error
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "missing token",
			wantToken:  "",
			guardErr:   apierrors.NewErrMissingSessionToken(),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid cookie",
			cookie:     "bad",
			wantToken:  "bad",
			guardErr:   apierrors.NewErrInvalidSessionToken(),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid cookie",
			cookie:     "tok",
			wantToken:  "tok",
			guardUser:  user,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "bearer header fallback",
			header:     "Bearer tok",
			wantToken:  "tok",
			guardUser:  user,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "cookie wins over header",
			cookie:     "from-cookie",
			header:     "Bearer from-header",
			wantToken:  "from-cookie",
			guardUser:  user,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			guard := mocks.NewSessionGuard(t)
			guard.On("Authenticate", mock.Anything, tt.wantToken).Return(tt.guardUser, tt.guardErr)

			cm := httpcontext.NewManager()
			m := NewAuthenticate(guard, cm, testutil.MakeNoopLogger())

			var (
				called bool
				got    model.User
			)
			r := gin.New()
			r.GET("/protected", m.RequireSession(), func(c *gin.Context) {
				called = true
				got, _ = cm.GetUserFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, user.ID, got.ID)
			} else {
				assert.Contains(t, w.Body.String(), `"kind":"authentication"`)
			}
		})
	}
}

func TestAuthenticate_RequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
	}{
		{name: "admin", user: &model.User{ID: uuid.New(), Role: model.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "customer", user: &model.User{ID: uuid.New(), Role: model.RoleCustomer}, wantStatus: http.StatusForbidden},
		{name: "no session", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm := httpcontext.NewManager()
			m := NewAuthenticate(mocks.NewSessionGuard(t), cm, testutil.MakeNoopLogger())

			r := gin.New()
			if tt.user != nil {
				r.Use(func(c *gin.Context) {
					c.Request = c.Request.WithContext(cm.SetUserToContext(c.Request.Context(), *tt.user))
					c.Next()
				})
			}
			r.GET("/admin", m.RequireRole(model.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthenticate_RequireSession_AttachesUser(t *testing.T) {
	t.Parallel()

	user := model.User{ID: uuid.New(), Role: model.RoleAdmin}

	guard := mocks.NewSessionGuard(t)
	guard.On("Authenticate", mock.Anything, "tok").Return(user, nil)

	cm := mocks.NewContextManager(t)
	cm.On("SetUserToContext", mock.Anything, user).Return(func(ctx context.Context, _ model.User) context.Context {
		return ctx
	})

	m := NewAuthenticate(guard, cm, testutil.MakeNoopLogger())

	r := gin.New()
	r.GET("/protected", m.RequireSession(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookie, Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
