package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/model"
	"github.com/dtroode/storefront-identity/internal/service"
)

// AccountService defines the account lifecycle operations exposed over HTTP.
type AccountService interface {
	Signup(ctx context.Context, params service.SignupParams) (service.SignupResult, error)
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	VerifyEmail(ctx context.Context, id uuid.UUID, code string) error
	ResendCode(ctx context.Context, id uuid.UUID) (string, error)
	ForgotPassword(ctx context.Context, ref string) (string, error)
	UpdateCredentials(ctx context.Context, caller model.User, id uuid.UUID, params service.UpdateParams) (model.UserSummary, error)
	ListByRole(ctx context.Context, caller model.User, role string) ([]model.UserSummary, error)
}

// User handles the /user endpoints.
type User struct {
	accountService AccountService
	contextManager model.ContextManager
	cookie         CookieOptions
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(accountService AccountService, contextManager model.ContextManager, cookie CookieOptions, logger *logger.Logger) *User {
	return &User{
		accountService: accountService,
		contextManager: contextManager,
		cookie:         cookie,
		logger:         logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type emailResult struct {
	Email string `json:"email"`
}

type loginResult struct {
	User      model.UserSummary `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt int64             `json:"expiresAt"`
}

type updateResult struct {
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"type"`
}

// Signup creates an account. Customers receive a verification mail.
func (h *User) Signup(c *gin.Context) {
	var req service.SignupParams
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apierrors.NewErrValidation("invalid request body"), h.logger)
		return
	}

	h.logger.Debug("User handler: processing signup request",
		"email", req.Email,
		"role", req.Role)

	res, err := h.accountService.Signup(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err, h.logger)
		return
	}

	message := "Please activate your account by verifying your email. We have sent you an email with the otp"
	if res.Role == model.RoleAdmin {
		message = "Admin created successfully"
	}

	respond(c, http.StatusCreated, message, emailResult{Email: res.Email})
}

// Login checks credentials and issues the session cookie. The token is also
// returned in the body.
func (h *User) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apierrors.NewErrValidation("invalid request body"), h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		AbortWithError(c, apierrors.NewErrValidation("%s", err.Error()), h.logger)
		return
	}

	res, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		AbortWithError(c, err, h.logger)
		return
	}

	setSessionCookie(c, res.Token, res.ExpiresAt, h.cookie)

	respondOK(c, "Login successful", loginResult{
		User:      res.User,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Unix(),
	})
}

// VerifyEmail consumes the code mailed at signup or resend.
func (h *User) VerifyEmail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.accountService.VerifyEmail(c.Request.Context(), id, c.Param("otp")); err != nil {
		AbortWithError(c, err, h.logger)
		return
	}

	respondOK(c, "Email verified successfully. you can login now", nil)
}

// Logout clears the session cookie. It needs no session.
func (h *User) Logout(c *gin.Context) {
	clearSessionCookie(c, h.cookie)
	respondOK(c, "Logout successfully", nil)
}

// ResendCode issues a fresh verification code.
func (h *User) ResendCode(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	email, err := h.accountService.ResendCode(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err, h.logger)
		return
	}

	respondOK(c, "verification mail sent successfully", emailResult{Email: email})
}

// ForgotPassword replaces the password with a generated one and mails it.
// The path segment is an account id or an email address.
func (h *User) ForgotPassword(c *gin.Context) {
	email, err := h.accountService.ForgotPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err, h.logger)
		return
	}

	respondOK(c, "Password sent to your email", emailResult{Email: email})
}

// ListByRole lists the accounts of the role named by the type query parameter.
func (h *User) ListByRole(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	role := c.Query("type")
	users, err := h.accountService.ListByRole(c.Request.Context(), caller, role)
	if err != nil {
		AbortWithError(c, err, h.logger)
		return
	}

	if len(users) == 0 {
		respondOK(c, fmt.Sprintf("no user of type %s found", strings.ToLower(strings.TrimSpace(role))), users)
		return
	}

	respondOK(c, "Users fetched successfully", users)
}

// UpdateCredentials changes the name and/or password of the account in the path.
func (h *User) UpdateCredentials(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req service.UpdateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apierrors.NewErrValidation("invalid request body"), h.logger)
		return
	}

	summary, err := h.accountService.UpdateCredentials(c.Request.Context(), caller, id, req)
	if err != nil {
		AbortWithError(c, err, h.logger)
		return
	}

	respondOK(c, "User updated successfully", updateResult{
		Name:  summary.Name,
		Email: summary.Email,
		Role:  summary.Role,
	})
}

// pathID parses the :id segment. A malformed id names no account.
func (h *User) pathID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		AbortWithError(c, apierrors.NewErrUserNotFound(raw), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func (h *User) caller(c *gin.Context) (model.User, bool) {
	user, ok := h.contextManager.GetUserFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, apierrors.NewErrMissingSessionToken(), h.logger)
		return model.User{}, false
	}
	return user, true
}
