package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindWrongCredentials, http.StatusUnauthorized},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.kind.HTTPStatus())
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("dup")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("outer: %w", NotFound("gone"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(Internal(errors.New("db exploded"))))
}

func TestClientMessage_SanitizesInternal(t *testing.T) {
	err := Internal(errors.New("dial tcp 10.0.0.5: connection refused"))
	assert.Equal(t, "internal server error", ClientMessage(err))
	// The cause is preserved for the server-side log.
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClientMessage_PassesThroughUserFacing(t *testing.T) {
	assert.Equal(t, "email already registered", ClientMessage(Conflict("email already registered")))
	assert.Equal(t, "incorrect email or password", ClientMessage(WrongCredentials()))
}

func TestWrongCredentials_SingleShape(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable on the wire.
	a, b := WrongCredentials(), WrongCredentials()
	assert.Equal(t, a.Kind, b.Kind)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Kind.HTTPStatus(), b.Kind.HTTPStatus())
}
