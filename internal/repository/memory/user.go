// Package memory is a process-local UserStore used for development and tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-identity/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps accounts in maps guarded by a single mutex.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	user.Email = model.NormalizeEmail(user.Email)
	user.OTP = copyOTP(user.OTP)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, model.ErrAlreadyExists
	}
	if _, ok := r.byID[user.ID]; ok {
		return model.User{}, model.ErrAlreadyExists
	}

	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID

	return cloneUser(user), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	return cloneUser(user), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			users = append(users, cloneUser(u))
		}
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

func (r *UserRepository) SetOTP(ctx context.Context, id uuid.UUID, code model.OneTimeCode) error {
	_, err := r.update(ctx, id, func(u *model.User) error {
		u.OTP = &model.OneTimeCode{Code: code.Code, ExpiresAt: code.ExpiresAt}
		return nil
	})
	return err
}

func (r *UserRepository) ConsumeOTP(ctx context.Context, id uuid.UUID, code string, now time.Time) error {
	_, err := r.update(ctx, id, func(u *model.User) error {
		if u.IsVerified || u.OTP == nil || u.OTP.Code != code || now.After(u.OTP.ExpiresAt) {
			return model.ErrOTPStale
		}
		u.IsVerified = true
		u.OTP = nil
		return nil
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrOTPStale
	}
	return err
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := r.update(ctx, id, func(u *model.User) error {
		u.PasswordHash = hash
		return nil
	})
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	return r.update(ctx, id, func(u *model.User) error {
		if update.Name != nil {
			u.Name = *update.Name
		}
		if update.PasswordHash != nil {
			u.PasswordHash = *update.PasswordHash
		}
		return nil
	})
}

// update applies fn to a copy of the stored account and commits it only when fn succeeds.
func (r *UserRepository) update(ctx context.Context, id uuid.UUID, fn func(*model.User) error) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	user = cloneUser(user)
	if err := fn(&user); err != nil {
		return model.User{}, err
	}
	user.UpdatedAt = r.now().UTC()

	r.byID[id] = user
	return cloneUser(user), nil
}

func cloneUser(u model.User) model.User {
	u.OTP = copyOTP(u.OTP)
	return u
}

func copyOTP(code *model.OneTimeCode) *model.OneTimeCode {
	if code == nil {
		return nil
	}
	c := *code
	return &c
}
