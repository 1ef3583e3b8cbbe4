package password

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyDigest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "short password", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := Hash(tt.password)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hashed, "$2"))
			assert.False(t, IsLegacy(hashed))

			rehash, err := Verify(hashed, tt.password)
			require.NoError(t, err)
			assert.False(t, rehash)
		})
	}
}

func TestVerify(t *testing.T) {
	bcryptHash, err := Hash("correct1")
	require.NoError(t, err)

	tests := []struct {
		name         string
		stored       string
		password     string
		wantRehash   bool
		wantMismatch bool
	}{
		{name: "bcrypt match", stored: bcryptHash, password: "correct1"},
		{name: "bcrypt mismatch", stored: bcryptHash, password: "wrong1", wantMismatch: true},
		{name: "legacy match", stored: legacyDigest("correct1"), password: "correct1", wantRehash: true},
		{name: "legacy uppercase digest", stored: strings.ToUpper(legacyDigest("correct1")), password: "correct1", wantRehash: true},
		{name: "legacy mismatch", stored: legacyDigest("correct1"), password: "wrong1", wantMismatch: true},
		{name: "empty stored", stored: "", password: "anything", wantMismatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rehash, err := Verify(tt.stored, tt.password)
			if tt.wantMismatch {
				assert.ErrorIs(t, err, ErrMismatch)
				assert.False(t, rehash)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRehash, rehash)
		})
	}
}

func TestIsLegacy(t *testing.T) {
	assert.True(t, IsLegacy(legacyDigest("x")))
	assert.False(t, IsLegacy("$2a$10$abcdefghijklmnopqrstuv"))
	assert.False(t, IsLegacy(strings.Repeat("z", 64)))
	assert.False(t, IsLegacy("abc"))
}

func TestIsStrong(t *testing.T) {
	assert.True(t, IsStrong("abcdef12"))
	assert.False(t, IsStrong("abcdefgh"))
	assert.False(t, IsStrong("12345678"))
	assert.False(t, IsStrong("ab12"))
}
