package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/juliebook/juliebook-be/internal/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer([]byte("super-secret"), time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("super-secret"), -time.Minute)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apierr.KindUnauthenticated, apierr.KindOf(err))
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer([]byte("right-secret"), time.Hour)
	other := NewTokenIssuer([]byte("wrong-secret"), time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apierr.KindUnauthenticated, apierr.KindOf(err))
}

func TestVerify_TamperedClaims(t *testing.T) {
	issuer := NewTokenIssuer([]byte("super-secret"), time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	// Swap the embedded user id without re-signing. The signature no longer
	// matches, so verification must fail.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	tampered := strings.Replace(string(payload), "user-123", "user-666", 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

	_, err = issuer.Verify(strings.Join(parts, "."))
	require.Error(t, err)
	assert.Equal(t, apierr.KindUnauthenticated, apierr.KindOf(err))
}

func TestVerify_Malformed(t *testing.T) {
	issuer := NewTokenIssuer([]byte("super-secret"), time.Hour)

	for _, tok := range []string{"", "garbage", "not.a.jwt"} {
		_, err := issuer.Verify(tok)
		require.Error(t, err, "token %q", tok)
		assert.Equal(t, apierr.KindUnauthenticated, apierr.KindOf(err))
	}
}
