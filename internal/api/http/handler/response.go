package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/storefront-identity/internal/apierrors"
	"github.com/dtroode/storefront-identity/internal/logger"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

type errorBody struct {
	Kind    apierrors.Kind `json:"kind"`
	Message string         `json:"message"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func respond(c *gin.Context, status int, message string, result any) {
	c.JSON(status, envelope{Success: true, Message: message, Result: result})
}

func respondOK(c *gin.Context, message string, result any) {
	respond(c, http.StatusOK, message, result)
}

// AbortWithError writes the failure envelope for err, records err on the
// context and stops the handler chain. Errors that are not an
// *apierrors.APIError are logged and rendered as an internal error without
// their text.
func AbortWithError(c *gin.Context, err error, logger *logger.Logger) {
	apiErr, ok := apierrors.As(err)
	if !ok {
		apiErr = apierrors.NewErrInternalServerError(err)
	}

	if apiErr.Kind == apierrors.KindInternal {
		logger.Error("HTTP handler: request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err.Error())
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Kind.HTTPStatus(), errorEnvelope{
		Success: false,
		Error: errorBody{
			Kind:    apiErr.Kind,
			Message: apiErr.Message,
		},
	})
}
