package service

import (
	"errors"
	"testing"

	"github.com/lshigami/Marmoset/config"
	"github.com/lshigami/Marmoset/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService(ttlHours int) TokenService {
	return NewTokenService(&config.Config{
		JWT: config.JWT{Secret: "test-secret", TTLHours: ttlHours},
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testTokenService(1)
	user := &model.User{ID: 42, Username: "alice", Email: "alice@example.com", Role: model.RoleSubAdmin}

	token, err := svc.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, model.RoleSubAdmin, identity.Role)
}

func TestExpiredTokenIsUnauthenticated(t *testing.T) {
	svc := testTokenService(-1) // already expired at issue time
	token, err := svc.Generate(&model.User{ID: 1, Username: "bob", Role: model.RoleUser})
	require.NoError(t, err)

	identity, err := svc.Parse(token)
	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, model.ErrUnauthenticated))
}

func TestMalformedTokenIsUnauthenticated(t *testing.T) {
	svc := testTokenService(1)
	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		identity, err := svc.Parse(token)
		assert.Nil(t, identity, "token %q yielded an identity", token)
		assert.True(t, errors.Is(err, model.ErrUnauthenticated))
	}
}

func TestForeignSignatureIsUnauthenticated(t *testing.T) {
	token, err := testTokenService(1).Generate(&model.User{ID: 7, Username: "mallory", Role: model.RoleAdmin})
	require.NoError(t, err)

	other := NewTokenService(&config.Config{JWT: config.JWT{Secret: "different-secret", TTLHours: 1}})
	identity, err := other.Parse(token)
	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, model.ErrUnauthenticated))
}
