package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		secret    string
		expiry    time.Duration
	}{
		{
			name:      "Valid token generation",
			sessionID: "sess-1",
			secret:    testSecret,
			expiry:    time.Hour,
		},
		{
			name:      "Long-lived token",
			sessionID: "sess-2",
			secret:    testSecret,
			expiry:    30 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateSessionToken(tt.sessionID, tt.secret, tt.expiry)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := ValidateSessionToken(token, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.sessionID, claims.SessionID)
		})
	}
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("sess-1", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSessionToken_Expired(t *testing.T) {
	token, err := GenerateSessionToken("sess-1", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	_, err := ValidateSessionToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
