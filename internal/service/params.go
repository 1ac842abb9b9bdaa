package service

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dtroode/storefront-identity/internal/model"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
	maxNameLen     = 200
	maxEmailLen    = 254

	temporaryPasswordLen = 12
)

// SignupParams is the input of Account.Signup.
type SignupParams struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"type"`
	SecretToken string `json:"secretToken"`
}

func (p SignupParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, maxNameLen)),
		validation.Field(&p.Email, validation.Required, validation.Length(3, maxEmailLen), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(minPasswordLen, maxPasswordLen)),
	)
}

// SignupResult describes the account created by Signup.
type SignupResult struct {
	ID       string
	Email    string
	Role     model.Role
	Verified bool
}

// LoginResult carries the session issued by Login.
type LoginResult struct {
	User      model.UserSummary
	Token     string
	ExpiresAt time.Time
}

// ErrNothingToUpdate is returned when an update carries neither a name nor a password.
var ErrNothingToUpdate = errors.New("please provide name or password")

// UpdateParams is the input of Account.UpdateCredentials. A nil Name and an
// empty NewPassword leave the corresponding field unchanged.
type UpdateParams struct {
	Name        *string `json:"name"`
	OldPassword string  `json:"oldPassword"`
	NewPassword string  `json:"newPassword"`
}

func (p UpdateParams) Validate() error {
	if p.Name == nil && p.NewPassword == "" {
		return ErrNothingToUpdate
	}

	var rules []*validation.FieldRules
	if p.Name != nil {
		rules = append(rules, validation.Field(&p.Name, validation.Required, validation.Length(1, maxNameLen)))
	}
	if p.NewPassword != "" {
		rules = append(rules,
			validation.Field(&p.OldPassword, validation.Required),
			validation.Field(&p.NewPassword, validation.Length(minPasswordLen, maxPasswordLen)),
		)
	}

	return validation.ValidateStruct(&p, rules...)
}
