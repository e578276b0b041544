package auth

import (
	"strings"
	"testing"

	"github.com/phrazzld/fitlog-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapHasher() *Argon2idHasher {
	return NewArgon2idHasher(config.Argon2Config{Time: 1, MemoryKiB: 1024, Threads: 1})
}

func TestArgon2idHasher(t *testing.T) {
	t.Parallel()

	h := cheapHasher()

	t.Run("hash and compare", func(t *testing.T) {
		t.Parallel()
		hash, err := h.Hash("correct horse battery")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

		assert.NoError(t, h.Compare(hash, "correct horse battery"))
		assert.ErrorIs(t, h.Compare(hash, "wrong horse battery"), ErrPasswordMismatch)
	})

	t.Run("salts are unique", func(t *testing.T) {
		t.Parallel()
		a, err := h.Hash("same password")
		require.NoError(t, err)
		b, err := h.Hash("same password")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("verifies with the stored cost", func(t *testing.T) {
		t.Parallel()
		hash, err := h.Hash("portable password")
		require.NoError(t, err)

		stronger := NewArgon2idHasher(config.Argon2Config{Time: 2, MemoryKiB: 2048, Threads: 2})
		assert.NoError(t, stronger.Compare(hash, "portable password"))
	})

	t.Run("empty password", func(t *testing.T) {
		t.Parallel()
		_, err := h.Hash("")
		assert.Error(t, err)
	})

	t.Run("malformed hashes", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{
			"",
			"plaintext",
			"$2a$10$bcrypthashvalue",
			"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
			"$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$a2V5",
			"$argon2id$v=19$m=1024,t=1,p=1$!!$a2V5",
		} {
			assert.ErrorIs(t, h.Compare(bad, "whatever"), ErrMalformedHash, bad)
		}
	})
}
