package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

const testSigningKey = "test-signing-key"

func TestNewTokenIssuer(t *testing.T) {
	t.Run("requires a signing key", func(t *testing.T) {
		_, err := NewTokenIssuer("", "vocilia", time.Minute)
		require.Error(t, err)
	})

	t.Run("non-positive ttl falls back to the default", func(t *testing.T) {
		issuer, err := NewTokenIssuer(testSigningKey, "vocilia", 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultTurnTokenTTL, issuer.ttl)
	})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer(testSigningKey, "vocilia", time.Hour)
	require.NoError(t, err)

	sessionID := id.NewSessionID()
	businessID := id.NewBusinessID()

	token, err := issuer.Issue(sessionID, businessID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID.String(), claims.SessionID)
	assert.Equal(t, businessID.String(), claims.BusinessID)
	assert.Equal(t, "vocilia", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := &TokenIssuer{signingKey: []byte(testSigningKey), issuer: "vocilia", ttl: -time.Hour}

	token, err := issuer.Issue(id.NewSessionID(), id.NewBusinessID())
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	minter, err := NewTokenIssuer("key-one", "vocilia", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenIssuer("key-two", "vocilia", time.Hour)
	require.NoError(t, err)

	token, err := minter.Issue(id.NewSessionID(), id.NewBusinessID())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer, err := NewTokenIssuer(testSigningKey, "vocilia", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTokenIssuer_RejectsUnsignedTokens(t *testing.T) {
	issuer, err := NewTokenIssuer(testSigningKey, "vocilia", time.Hour)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, TurnClaims{
		SessionID:  id.NewSessionID().String(),
		BusinessID: id.NewBusinessID().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSessionIDFromToken(t *testing.T) {
	issuer, err := NewTokenIssuer(testSigningKey, "vocilia", time.Hour)
	require.NoError(t, err)

	sessionID := id.NewSessionID()
	token, err := issuer.Issue(sessionID, id.NewBusinessID())
	require.NoError(t, err)

	got, err := issuer.SessionIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)

	t.Run("rejects claims without a parseable session id", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, TurnClaims{
			SessionID: "not-a-uuid",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, err := forged.SignedString([]byte(testSigningKey))
		require.NoError(t, err)

		_, err = issuer.SessionIDFromToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
