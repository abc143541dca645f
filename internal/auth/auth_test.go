package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnwithai.app/learning-server/internal/config"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		signup  bool
		wantMsg string
	}{
		{"empty password", Credentials{Email: "a@b.com"}, false, "Email and password are required"},
		{"empty email", Credentials{Password: "secret1"}, false, "Email and password are required"},
		{"signup without name", Credentials{Email: "a@b.com", Password: "secret1"}, true, "Name is required for signup"},
		{"short password", Credentials{Email: "a@b.com", Password: "12345"}, false, "Password must be at least 6 characters"},
		{"short multibyte password", Credentials{Email: "a@b.com", Password: "ééé"}, false, "Password must be at least 6 characters"},
		{"multibyte password counts characters", Credentials{Email: "a@b.com", Password: "पासवर्डहै"}, false, ""},
		{"valid login", Credentials{Email: "a@b.com", Password: "123456"}, false, ""},
		{"valid signup", Credentials{Name: "Asha", Email: "a@b.com", Password: "123456"}, true, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.creds, tc.signup)
			if tc.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.wantMsg, vErr.Message)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ravi", DisplayName(Credentials{Name: " Ravi ", Email: "r@x.io"}))
	assert.Equal(t, "priya.k", DisplayName(Credentials{Email: "priya.k@example.com"}))
	assert.Equal(t, "noatsign", DisplayName(Credentials{Email: "noatsign"}))
}

func TestJWTRoundTrip(t *testing.T) {
	config.AppConfig = config.Defaults()

	token, err := GenerateJWT("user-123")
	require.NoError(t, err)

	sub, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

func TestValidateJWT_Rejects(t *testing.T) {
	config.AppConfig = config.Defaults()

	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(config.AppConfig.JWTSecret))
	require.NoError(t, err)
	_, err = ValidateJWT(signed)
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"})
	signed, err = foreign.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)
	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}
