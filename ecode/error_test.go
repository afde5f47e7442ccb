package ecode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByCode(t *testing.T) {
	wire := FromCode(InvalidCredentials, "bad password")
	assert.True(t, errors.Is(wire, ErrInvalidCredentials))
	assert.False(t, errors.Is(wire, ErrAccountDeactivated))
	assert.Equal(t, "bad password", MessageOf(wire))

	wrapped := fmt.Errorf("login: %w", ErrNetworkUnavailable)
	assert.True(t, errors.Is(wrapped, ErrNetworkUnavailable))
	assert.Equal(t, NetworkUnavailable, CodeOf(wrapped))
}

func TestFromCodeOK(t *testing.T) {
	assert.NoError(t, FromCode(OK, ""))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(NetworkUnavailable, cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
	assert.Contains(t, err.Error(), "refused")
}

func TestValidationError(t *testing.T) {
	assert.Nil(t, NewValidationError(nil))

	err := NewValidationError(map[string]string{"password": "too short", "email": "required"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, ValidationFailed, CodeOf(err))
	assert.Equal(t, "validation failed: email: required; password: too short", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "too short", ve.Field("password"))
}

func TestTextAndStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ToHTTPStatus(SessionExpired))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(-99999))
	assert.Equal(t, Text(ServerErr), Text(-99999))

	Register(-2001, "custom")
	assert.Equal(t, "custom", Text(-2001))
}

func TestMessageHelpers(t *testing.T) {
	assert.Equal(t, "email required", FieldIsRequired("email"))
	assert.Equal(t, "required", FieldIsRequired())
	assert.Equal(t, "user does not exist", NotExist("user"))
	assert.Equal(t, "draft expired", Expired("draft"))
}
