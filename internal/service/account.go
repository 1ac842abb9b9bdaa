package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/model"
	"github.com/dtroode/storefront-identity/internal/otp"
	"github.com/dtroode/storefront-identity/internal/password"
)

// AccountConfig holds the values Account reads from configuration.
type AccountConfig struct {
	AdminSecretToken string
	BaseURL          string
}

// Account runs the account lifecycle: signup, email verification, login and
// credential maintenance.
type Account struct {
	userStore    model.UserStore
	hasher       password.Hasher
	codes        *otp.Engine
	tokenManager model.TokenManager
	mail         model.MailDispatcher
	logger       *logger.Logger
	cfg          AccountConfig

	now              func() time.Time
	generatePassword func(n int) (string, error)
}

func NewAccount(
	userStore model.UserStore,
	hasher password.Hasher,
	codes *otp.Engine,
	tokenManager model.TokenManager,
	mail model.MailDispatcher,
	logger *logger.Logger,
	cfg AccountConfig,
) *Account {
	return &Account{
		userStore:        userStore,
		hasher:           hasher,
		codes:            codes,
		tokenManager:     tokenManager,
		mail:             mail,
		logger:           logger,
		cfg:              cfg,
		now:              time.Now,
		generatePassword: password.Generate,
	}
}

func (a *Account) Signup(ctx context.Context, params SignupParams) (SignupResult, error) {
	params.Email = model.NormalizeEmail(params.Email)
	params.Name = strings.TrimSpace(params.Name)

	a.logger.Debug("Account service: starting signup",
		"email", params.Email,
		"role", params.Role)

	if err := params.Validate(); err != nil {
		return SignupResult{}, apierrors.NewErrValidation("%s", err.Error())
	}

	role, ok := model.ParseRole(params.Role)
	if !ok {
		return SignupResult{}, apierrors.NewErrValidation("type: must be one of %s, %s", model.RoleAdmin, model.RoleCustomer)
	}

	if role == model.RoleAdmin && !a.adminSecretMatches(params.SecretToken) {
		a.logger.Warn("Account service: admin signup denied",
			"email", params.Email)
		return SignupResult{}, apierrors.NewErrAdminSignupDenied()
	}

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Account service: email already registered",
			"email", params.Email)
		return SignupResult{}, apierrors.NewErrEmailIsTaken(params.Email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Account service: failed to get user by email",
			"email", params.Email,
			"error", err.Error())
		return SignupResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hashPassword(params.Password)
	if err != nil {
		return SignupResult{}, err
	}

	now := a.now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   role != model.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if role == model.RoleCustomer {
		code, err := a.codes.IssueForSignup(now)
		if err != nil {
			return SignupResult{}, fmt.Errorf("failed to issue verification code: %w", err)
		}
		user.OTP = &code
	}

	saved, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Account service: email registered concurrently",
			"email", params.Email)
		return SignupResult{}, apierrors.NewErrEmailIsTaken(params.Email)
	}
	if err != nil {
		a.logger.Error("Account service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return SignupResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	if user.OTP != nil {
		a.mail.Dispatch(verificationMail(saved, *user.OTP, a.cfg.BaseURL, a.codes.Policy().SignupTTL))
	}

	a.logger.Info("Account service: signup completed",
		"user_id", saved.ID,
		"role", saved.Role,
		"verified", saved.IsVerified)

	return SignupResult{
		ID:       saved.ID.String(),
		Email:    saved.Email,
		Role:     saved.Role,
		Verified: saved.IsVerified,
	}, nil
}

func (a *Account) Login(ctx context.Context, email, plaintext string) (LoginResult, error) {
	email = model.NormalizeEmail(email)

	a.logger.Debug("Account service: starting login",
		"email", email)

	if email == "" || plaintext == "" {
		return LoginResult{}, apierrors.NewErrCredentialsIncorrect()
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return LoginResult{}, apierrors.NewErrCredentialsIncorrect()
	}
	if err != nil {
		a.logger.Error("Account service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(user.PasswordHash, plaintext) {
		a.logger.Info("Account service: wrong password",
			"user_id", user.ID)
		return LoginResult{}, apierrors.NewErrCredentialsIncorrect()
	}

	if !user.IsVerified {
		return LoginResult{}, apierrors.NewErrEmailNotVerified()
	}

	token, expiresAt, err := a.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Account service: login completed",
		"user_id", user.ID)

	return LoginResult{
		User:      user.Summary(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (a *Account) VerifyEmail(ctx context.Context, id uuid.UUID, code string) error {
	user, err := a.getByID(ctx, id)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return apierrors.NewErrEmailAlreadyVerified()
	}

	now := a.now()
	switch a.codes.Validate(user.OTP, code, now) {
	case otp.ResultMismatch:
		a.logger.Info("Account service: invalid verification code",
			"user_id", id)
		return apierrors.NewErrInvalidOTP()
	case otp.ResultExpired:
		a.logger.Info("Account service: expired verification code",
			"user_id", id)
		return apierrors.NewErrOTPExpired()
	}

	err = a.userStore.ConsumeOTP(ctx, id, code, now)
	if errors.Is(err, model.ErrOTPStale) {
		return apierrors.NewErrInvalidOTP()
	}
	if err != nil {
		a.logger.Error("Account service: failed to consume verification code",
			"user_id", id,
			"error", err.Error())
		return fmt.Errorf("failed to consume otp: %w", err)
	}

	a.logger.Info("Account service: email verified",
		"user_id", id)

	return nil
}

// ResendCode replaces the pending code of an unverified account and mails it.
func (a *Account) ResendCode(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := a.getByID(ctx, id)
	if err != nil {
		return "", err
	}

	if user.IsVerified {
		return "", apierrors.NewErrEmailAlreadyVerified()
	}

	code, err := a.codes.IssueForResend(a.now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to issue verification code: %w", err)
	}

	if err := a.userStore.SetOTP(ctx, id, code); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", apierrors.NewErrUserNotFound(id.String())
		}
		a.logger.Error("Account service: failed to store verification code",
			"user_id", id,
			"error", err.Error())
		return "", fmt.Errorf("failed to set otp: %w", err)
	}

	a.mail.Dispatch(verificationMail(user, code, a.cfg.BaseURL, a.codes.Policy().ResendTTL))

	a.logger.Info("Account service: verification code resent",
		"user_id", id)

	return user.Email, nil
}

// ForgotPassword replaces the password of the account named by ref, which is
// either an account id or an email address, and mails the new one.
func (a *Account) ForgotPassword(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", apierrors.NewErrValidation("id: cannot be blank")
	}

	var (
		user model.User
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		user, err = a.getByID(ctx, id)
	} else {
		user, err = a.getByEmail(ctx, ref)
	}
	if err != nil {
		return "", err
	}

	temporary, err := a.generatePassword(temporaryPasswordLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := a.hasher.Hash(temporary)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.SetPasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", apierrors.NewErrUserNotFound(ref)
		}
		a.logger.Error("Account service: failed to store password",
			"user_id", user.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to set password hash: %w", err)
	}

	a.mail.Dispatch(temporaryPasswordMail(user, temporary))

	a.logger.Info("Account service: temporary password issued",
		"user_id", user.ID)

	return user.Email, nil
}

// UpdateCredentials changes the name and/or password of the account id on
// behalf of caller, who must be that account or an admin.
func (a *Account) UpdateCredentials(ctx context.Context, caller model.User, id uuid.UUID, params UpdateParams) (model.UserSummary, error) {
	if params.Name != nil {
		trimmed := strings.TrimSpace(*params.Name)
		params.Name = &trimmed
	}

	if err := params.Validate(); err != nil {
		return model.UserSummary{}, apierrors.NewErrValidation("%s", err.Error())
	}

	if caller.ID == uuid.Nil || (caller.ID != id && !model.HasRole(caller, model.RoleAdmin)) {
		a.logger.Warn("Account service: update denied",
			"caller_id", caller.ID,
			"target_id", id)
		return model.UserSummary{}, apierrors.NewErrForbidden()
	}

	target, err := a.getByID(ctx, id)
	if err != nil {
		return model.UserSummary{}, err
	}

	update := model.ProfileUpdate{Name: params.Name}

	if params.NewPassword != "" {
		if !a.hasher.Verify(target.PasswordHash, params.OldPassword) {
			return model.UserSummary{}, apierrors.NewErrInvalidCurrentPassword()
		}

		hash, err := a.hashPassword(params.NewPassword)
		if err != nil {
			return model.UserSummary{}, err
		}
		update.PasswordHash = &hash
	}

	updated, err := a.userStore.UpdateProfile(ctx, id, update)
	if errors.Is(err, model.ErrNotFound) {
		return model.UserSummary{}, apierrors.NewErrUserNotFound(id.String())
	}
	if err != nil {
		a.logger.Error("Account service: failed to update profile",
			"user_id", id,
			"error", err.Error())
		return model.UserSummary{}, fmt.Errorf("failed to update profile: %w", err)
	}

	a.logger.Info("Account service: credentials updated",
		"user_id", id,
		"caller_id", caller.ID,
		"name_changed", params.Name != nil,
		"password_changed", update.PasswordHash != nil)

	return updated.Summary(), nil
}

// hashPassword digests a caller-chosen password. A password the configured
// algorithm cannot digest is a validation failure.
func (a *Account) hashPassword(plaintext string) (string, error) {
	hash, err := a.hasher.Hash(plaintext)
	if errors.Is(err, password.ErrPasswordTooLong) {
		return "", apierrors.NewErrValidation("password: %s", err.Error())
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// ListByRole returns every account holding role. Only admins may list.
func (a *Account) ListByRole(ctx context.Context, caller model.User, role string) ([]model.UserSummary, error) {
	if !model.HasRole(caller, model.RoleAdmin) {
		return nil, apierrors.NewErrForbidden()
	}

	if strings.TrimSpace(role) == "" {
		return nil, apierrors.NewErrValidation("type: cannot be blank")
	}

	parsed, ok := model.ParseRole(role)
	if !ok {
		return nil, apierrors.NewErrValidation("type: must be one of %s, %s", model.RoleAdmin, model.RoleCustomer)
	}

	users, err := a.userStore.ListByRole(ctx, parsed)
	if err != nil {
		a.logger.Error("Account service: failed to list users",
			"role", parsed,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}

	return summaries, nil
}

func (a *Account) getByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound(id.String())
	}
	if err != nil {
		a.logger.Error("Account service: failed to get user by id",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (a *Account) getByEmail(ctx context.Context, email string) (model.User, error) {
	email = model.NormalizeEmail(email)
	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierrors.NewErrUserNotFound(email)
	}
	if err != nil {
		a.logger.Error("Account service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (a *Account) adminSecretMatches(presented string) bool {
	if a.cfg.AdminSecretToken == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.cfg.AdminSecretToken), []byte(presented)) == 1
}
