package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/storefront-identity/internal/model"
)

const (
	subjectVerification      = "Verify your email"
	subjectTemporaryPassword = "Your temporary password"
)

// VerificationURL is the link a customer follows to prove email ownership.
func VerificationURL(baseURL string, user model.User, code string) string {
	return fmt.Sprintf("%s/user/verifyEmail/%s/%s", strings.TrimRight(baseURL, "/"), user.ID, code)
}

func verificationMail(user model.User, code model.OneTimeCode, baseURL string, ttl time.Duration) model.Mail {
	return model.Mail{
		To:      user.Email,
		Subject: subjectVerification,
		Body: fmt.Sprintf(
			"Hi %s, thanks for signing up. Please open %s to verify your email. The link expires in %d minutes.",
			user.Name, VerificationURL(baseURL, user, code.Code), int(ttl.Minutes()),
		),
	}
}

func temporaryPasswordMail(user model.User, temporary string) model.Mail {
	return model.Mail{
		To:      user.Email,
		Subject: subjectTemporaryPassword,
		Body: fmt.Sprintf(
			"Hi %s, here is your new password: %s. Please change it after you log in.",
			user.Name, temporary,
		),
	}
}
