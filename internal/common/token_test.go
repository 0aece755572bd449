package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbestore/storefront/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := config.Application{SecretKey: "test-secret-key"}
	c := context.Background()

	token, err := CreateToken(c, "session-token-test", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := VerifyToken(c, token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "session-token-test", subject)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	c := context.Background()

	token, err := CreateToken(c, "session-key-test", config.Application{SecretKey: "key-one"})
	require.NoError(t, err)

	_, err = VerifyToken(c, token, config.Application{SecretKey: "key-two"})
	assert.Error(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	_, err := VerifyToken(context.Background(), "not-a-token", config.Application{SecretKey: "k"})
	assert.Error(t, err)
}
