// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestTokenRoundtrip(t *testing.T) {
	Init()

	token, err := CreateJWT("7f8b5c12-0000-4000-8000-000000000001")
	require.NoError(t, err)

	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "7f8b5c12-0000-4000-8000-000000000001", sub)
}

func TestTamperedTokenRejected(t *testing.T) {
	Init()

	token, err := CreateJWT("someone")
	require.NoError(t, err)

	_, err = AuthenticateJWT(token + "x")
	assert.Error(t, err)

	_, err = AuthenticateJWT("not.a.jwt")
	assert.Error(t, err)
}

func TestKeysDoNotSurviveReinit(t *testing.T) {
	Init()
	token, err := CreateJWT("someone")
	require.NoError(t, err)

	// A restart mints new keys; old guest tokens must stop verifying.
	Init()
	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}
