package auth

import (
	"errors"
	"testing"
	"time"

	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		Email:     "chef@foodsnap.app",
		Password:  "rahasia123",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
}

func TestLogin(t *testing.T) {
	a, err := NewAuthenticator(testConfig())
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		expected error
	}{
		{name: "ok", email: "chef@foodsnap.app", password: "rahasia123"},
		{name: "empty_email", email: "  ", password: "rahasia123", expected: common.ErrEmptyCredentials},
		{name: "empty_password", email: "chef@foodsnap.app", password: "", expected: common.ErrEmptyCredentials},
		{name: "wrong_password", email: "chef@foodsnap.app", password: "salah", expected: common.ErrInvalidCredentials},
		{name: "wrong_email", email: "other@foodsnap.app", password: "rahasia123", expected: common.ErrInvalidCredentials},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			token, err := a.Login(testCase.email, testCase.password)
			if testCase.expected != nil {
				assert.Equal(t, testCase.expected, err)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token.Value)

			claims, err := a.Validate(token.Value)
			require.NoError(t, err)
			assert.Equal(t, "chef@foodsnap.app", claims.Subject)
		})
	}
}

func TestLogin_PrehashedPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("dari-hash"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Password = ""
	cfg.PasswordHash = string(hash)

	a, err := NewAuthenticator(cfg)
	require.NoError(t, err)
	_, err = a.Login(cfg.Email, "dari-hash")
	assert.NoError(t, err)
}

func TestNewAuthenticator_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := NewAuthenticator(cfg)
	var cfgErr *common.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "auth.jwt_secret", cfgErr.Field)

	cfg = testConfig()
	cfg.Password = ""
	cfg.PasswordHash = "not-a-bcrypt-hash"
	_, err = NewAuthenticator(cfg)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "auth.password_hash", cfgErr.Field)
}

func TestValidate_Rejects(t *testing.T) {
	a, err := NewAuthenticator(testConfig())
	require.NoError(t, err)

	token, err := a.Login("chef@foodsnap.app", "rahasia123")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := *a
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(token.Value)
		assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other := *a
		other.secret = []byte("another-secret")
		_, err := other.Validate(token.Value)
		assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
	})

	t.Run("wrong_algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "chef@foodsnap.app",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = a.Validate(unsigned)
		var custom *common.CustomError
		require.True(t, errors.As(err, &custom))
		assert.Equal(t, common.ErrCodeUnauthorized, custom.Code)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Validate("not.a.token")
		assert.Error(t, err)
	})
}
