package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the access token.
const SessionCookie = "access_token"

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Secure bool
	Domain string
}

func setSessionCookie(c *gin.Context, token string, expiresAt time.Time, opts CookieOptions) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", opts.Domain, opts.Secure, true)
}

func clearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", opts.Domain, opts.Secure, true)
}
