package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", 7*24*time.Hour)

	token, expiresAt, err := m.Generate(42, "admin@shopflow.fr", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@shopflow.fr", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejects(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, _, err := m.Generate(1, "a@b.c", "user")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := m.Validate("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewManager("other", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged, _, err := NewManager("attacker", time.Hour).Generate(1, "a@b.c", "admin")
		require.NoError(t, err)
		parts[1] = strings.Split(forged, ".")[1]
		_, err = m.Validate(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, _, err := NewManager("secret", -time.Minute).Generate(1, "a@b.c", "admin")
		require.NoError(t, err)
		_, err = m.Validate(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Validate(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
