package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityKey(t *testing.T) {
	t.Run("user identity", func(t *testing.T) {
		id := UserIdentity("abc123")
		assert.Equal(t, "user_abc123", id.Key())
		assert.True(t, id.IsUser())
	})

	t.Run("guest identity", func(t *testing.T) {
		id := GuestIdentity("tok-1")
		assert.Equal(t, "guest_tok-1", id.Key())
		assert.False(t, id.IsUser())
	})

	t.Run("user and guest keys never collide", func(t *testing.T) {
		// Same raw id under both kinds still maps to distinct keys.
		assert.NotEqual(t, UserIdentity("same").Key(), GuestIdentity("same").Key())
	})
}

func TestNewGuestToken(t *testing.T) {
	first := NewGuestToken()
	second := NewGuestToken()
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}
