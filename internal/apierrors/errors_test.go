package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_HTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindExpired, http.StatusGone},
		{KindInternal, http.StatusInternalServerError},
		{Kind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("signup: %w", NewErrEmailIsTaken("ada@x.com"))

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestAs(t *testing.T) {
	apiErr, ok := As(fmt.Errorf("wrap: %w", NewErrOTPExpired()))
	require.True(t, ok)
	assert.Equal(t, KindExpired, apiErr.Kind)
	assert.Equal(t, "otp expired", apiErr.Error())

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestNewErrInternalServerError_HidesCause(t *testing.T) {
	cause := errors.New("connection refused on 10.0.0.3:5432")
	err := NewErrInternalServerError(cause)

	assert.Equal(t, "internal server error", err.Error())
	assert.ErrorIs(t, err, cause)
}
