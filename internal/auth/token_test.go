package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("super-secret"), time.Hour)

	token, err := svc.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", subject)
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("secret"), -time.Minute)

	token, err := svc.Issue("u1")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenService([]byte("right-secret"), time.Hour)
	verifier := NewTokenService([]byte("wrong-secret"), time.Hour)

	token, err := issuer.Issue("u2")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("k"), time.Hour)

	for _, tokenStr := range []string{"", "not.a.jwt", "garbage"} {
		_, err := svc.Verify(tokenStr)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenService_FailuresIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("secret"), time.Hour)
	expired := NewTokenService([]byte("secret"), -time.Minute)
	other := NewTokenService([]byte("other"), time.Hour)

	expiredToken, err := expired.Issue("u3")
	require.NoError(t, err)
	foreignToken, err := other.Issue("u3")
	require.NoError(t, err)

	_, errExpired := svc.Verify(expiredToken)
	_, errForeign := svc.Verify(foreignToken)
	_, errMalformed := svc.Verify("not.a.jwt")

	// One error for every cause, so callers cannot leak which check failed.
	require.Equal(t, ErrInvalidToken, errExpired)
	require.Equal(t, ErrInvalidToken, errForeign)
	require.Equal(t, ErrInvalidToken, errMalformed)
}
