package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-identity/internal/model"
)

func newUser(email string, role model.Role, createdAt time.Time) model.User {
	return model.User{
		ID:           uuid.New(),
		Name:         "Ada",
		Email:        email,
		PasswordHash: "digest",
		Role:         role,
		OTP:          &model.OneTimeCode{Code: "482913", ExpiresAt: createdAt.Add(30 * time.Minute)},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := newUser(" Ada@X.com ", model.RoleCustomer, time.Now())

	saved, err := r.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", saved.Email)

	_, err = r.Create(ctx, newUser("ADA@x.com", model.RoleCustomer, time.Now()))
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	got, err := r.GetByEmail(ctx, "ada@X.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", got.Email)

	_, err = r.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = r.GetByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := newUser("ada@x.com", model.RoleCustomer, time.Now())
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.OTP.Code = "tampered"
	got.Name = "Mallory"

	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "482913", again.OTP.Code)
	assert.Equal(t, "Ada", again.Name)
}

func TestUserRepository_ListByRole(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	second := newUser("b@x.com", model.RoleAdmin, base.Add(time.Minute))
	first := newUser("a@x.com", model.RoleAdmin, base)
	customer := newUser("c@x.com", model.RoleCustomer, base)
	for _, u := range []model.User{second, first, customer} {
		_, err := r.Create(ctx, u)
		require.NoError(t, err)
	}

	admins, err := r.ListByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, first.ID, admins[0].ID)
	assert.Equal(t, second.ID, admins[1].ID)

	empty, err := NewUserRepository().ListByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUserRepository_OTP(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := newUser("ada@x.com", model.RoleCustomer, time.Now())
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	next := model.OneTimeCode{Code: "111222", ExpiresAt: time.Now().Add(20 * time.Minute)}
	require.NoError(t, r.SetOTP(ctx, u.ID, next))
	require.ErrorIs(t, r.SetOTP(ctx, uuid.New(), next), model.ErrNotFound)

	now := time.Now()
	require.ErrorIs(t, r.ConsumeOTP(ctx, u.ID, "482913", now), model.ErrOTPStale, "replaced code is stale")
	require.ErrorIs(t, r.ConsumeOTP(ctx, u.ID, "111222", next.ExpiresAt.Add(time.Second)), model.ErrOTPStale, "expired code is stale")
	require.NoError(t, r.ConsumeOTP(ctx, u.ID, "111222", next.ExpiresAt), "code is valid through its expiry instant")
	require.ErrorIs(t, r.ConsumeOTP(ctx, u.ID, "111222", now), model.ErrOTPStale, "consumed at most once")
	require.ErrorIs(t, r.ConsumeOTP(ctx, uuid.New(), "111222", now), model.ErrOTPStale)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Nil(t, got.OTP)
}

func TestUserRepository_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := newUser("ada@x.com", model.RoleCustomer, time.Now())
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	const n = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.ConsumeOTP(ctx, u.ID, "482913", time.Now()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, dupes int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(ctx, newUser("race@x.com", model.RoleCustomer, time.Now()))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, model.ErrAlreadyExists):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dupes)
}

func TestUserRepository_UpdateProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	u := newUser("ada@x.com", model.RoleCustomer, time.Now())
	_, err := r.Create(ctx, u)
	require.NoError(t, err)

	name := "Ada L."
	updated, err := r.UpdateProfile(ctx, u.ID, model.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "digest", updated.PasswordHash)
	assert.Equal(t, fixed, updated.UpdatedAt)

	require.NoError(t, r.SetPasswordHash(ctx, u.ID, "new-digest"))
	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-digest", got.PasswordHash)

	r.now = func() time.Time { return fixed.Add(time.Hour) }
	same, err := r.UpdateProfile(ctx, u.ID, model.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, got, same, "empty update writes nothing")

	require.ErrorIs(t, r.SetPasswordHash(ctx, uuid.New(), "x"), model.ErrNotFound)
	_, err = r.UpdateProfile(ctx, uuid.New(), model.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = r.UpdateProfile(ctx, uuid.New(), model.ProfileUpdate{})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_CancelledContext(t *testing.T) {
	r := NewUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Create(ctx, newUser("ada@x.com", model.RoleCustomer, time.Now()))
	require.ErrorIs(t, err, context.Canceled)
	_, err = r.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, context.Canceled)
}
