package testutil

import (
	"io"

	"github.com/dtroode/storefront-identity/internal/logger"
)

// MakeNoopLogger returns a Logger that discards every record.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, "text")
}
