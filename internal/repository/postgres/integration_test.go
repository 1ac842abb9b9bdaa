//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/storefront-identity/internal/model"
	repo "github.com/dtroode/storefront-identity/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "identity_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/identity_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(email string) model.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return model.User{
		ID:           uuid.New(),
		Name:         "Ada",
		Email:        email,
		PasswordHash: "$argon2id$digest",
		Role:         model.RoleCustomer,
		OTP:          &model.OneTimeCode{Code: "482913", ExpiresAt: now.Add(30 * time.Minute)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	u := newUser("Lifecycle@Example.com")
	saved, err := ur.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, "lifecycle@example.com", saved.Email)
	require.NotNil(t, saved.OTP)

	_, err = ur.Create(ctx, newUser("lifecycle@example.com"))
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	byEmail, err := ur.GetByEmail(ctx, "LIFECYCLE@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	require.ErrorIs(t, ur.ConsumeOTP(ctx, u.ID, "000000", time.Now()), model.ErrOTPStale)
	require.ErrorIs(t, ur.ConsumeOTP(ctx, u.ID, "482913", u.OTP.ExpiresAt.Add(time.Second)), model.ErrOTPStale)
	require.NoError(t, ur.ConsumeOTP(ctx, u.ID, "482913", time.Now()))
	require.ErrorIs(t, ur.ConsumeOTP(ctx, u.ID, "482913", time.Now()), model.ErrOTPStale)

	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, byID.IsVerified)
	require.Nil(t, byID.OTP)

	require.NoError(t, ur.SetPasswordHash(ctx, u.ID, "$argon2id$new"))

	name := "Ada L."
	updated, err := ur.UpdateProfile(ctx, u.ID, model.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, "$argon2id$new", updated.PasswordHash)

	customers, err := ur.ListByRole(ctx, model.RoleCustomer)
	require.NoError(t, err)
	require.NotEmpty(t, customers)

	_, err = ur.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	const n = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ur.Create(ctx, newUser("race@example.com"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case err == model.ErrAlreadyExists:
				dups++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, n-1, dups)
}
