// Package otp issues and validates numeric one-time codes for email verification.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/dtroode/storefront-identity/internal/model"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

// Policy holds the code lifetimes for each issuing path.
type Policy struct {
	SignupTTL time.Duration
	ResendTTL time.Duration
}

// DefaultPolicy is 30 minutes after signup and 20 minutes after a resend.
var DefaultPolicy = Policy{
	SignupTTL: 30 * time.Minute,
	ResendTTL: 20 * time.Minute,
}

// Result is the outcome of validating a presented code.
type Result int

const (
	ResultOK Result = iota
	ResultMismatch
	ResultExpired
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultMismatch:
		return "mismatch"
	case ResultExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Engine generates six-digit codes.
type Engine struct {
	policy Policy
}

// NewEngine creates an Engine. Zero durations fall back to DefaultPolicy.
func NewEngine(policy Policy) *Engine {
	if policy.SignupTTL <= 0 {
		policy.SignupTTL = DefaultPolicy.SignupTTL
	}
	if policy.ResendTTL <= 0 {
		policy.ResendTTL = DefaultPolicy.ResendTTL
	}
	return &Engine{policy: policy}
}

// Policy returns the lifetimes in effect.
func (e *Engine) Policy() Policy {
	return e.policy
}

// IssueForSignup issues a code valid for the signup window.
func (e *Engine) IssueForSignup(now time.Time) (model.OneTimeCode, error) {
	return e.Issue(now, e.policy.SignupTTL)
}

// IssueForResend issues a code valid for the resend window.
func (e *Engine) IssueForResend(now time.Time) (model.OneTimeCode, error) {
	return e.Issue(now, e.policy.ResendTTL)
}

// Issue draws a uniform code in [100000, 999999] expiring at now+ttl.
func (e *Engine) Issue(now time.Time, ttl time.Duration) (model.OneTimeCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return model.OneTimeCode{}, fmt.Errorf("failed to generate one-time code: %w", err)
	}

	return model.OneTimeCode{
		Code:      strconv.FormatInt(n.Int64()+codeMin, 10),
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Validate checks presented against stored at now. A missing code or expiry is a mismatch,
// and a wrong code is a mismatch regardless of time.
func (e *Engine) Validate(stored *model.OneTimeCode, presented string, now time.Time) Result {
	if stored == nil || stored.Code == "" || stored.ExpiresAt.IsZero() {
		return ResultMismatch
	}

	if subtle.ConstantTimeCompare([]byte(stored.Code), []byte(presented)) != 1 {
		return ResultMismatch
	}

	if now.After(stored.ExpiresAt) {
		return ResultExpired
	}

	return ResultOK
}
