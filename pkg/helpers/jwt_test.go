package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 0)

	tok, exp, err := m.GenerateSessionToken(7, "sid-1")
	require.NoError(t, err)
	assert.True(t, exp.IsZero())

	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "sid-1", claims.ID)
	assert.Nil(t, claims.ExpiresAt)
}

func TestSessionToken_RejectsTampering(t *testing.T) {
	m := NewJWTManager("secret", 0)
	tok, _, err := m.GenerateSessionToken(7, "sid-1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	forged, _, err := NewJWTManager("other", 0).GenerateSessionToken(1, "sid-1")
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	// payload from one token, signature from another
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = m.ParseSessionToken(spliced)
	assert.Error(t, err)

	_, err = m.ParseSessionToken(forged)
	assert.Error(t, err)

	_, err = m.ParseSessionToken("garbage")
	assert.Error(t, err)

	_, err = m.ParseSessionToken("")
	assert.Error(t, err)
}

func TestSessionToken_RejectsNoneAlg(t *testing.T) {
	m := NewJWTManager("secret", 0)
	claims := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{ID: "sid"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)
}

func TestSessionToken_Expiry(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	tok, exp, err := m.GenerateSessionToken(3, "sid")
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Minute), exp)

	_, err = m.ParseSessionToken(tok)
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)
}

func TestSessionToken_RequiresClaims(t *testing.T) {
	m := NewJWTManager("secret", 0)
	tok, _, err := m.GenerateSessionToken(0, "")
	require.NoError(t, err)

	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)
}
