package qrtoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_Issue(t *testing.T) {
	secret := []byte("test-secret")
	issuer := NewIssuer(secret, 30*time.Second)

	t.Run("token fields are populated and signed", func(t *testing.T) {
		before := time.Now().UnixMilli()
		token, err := issuer.Issue("sess-1")
		after := time.Now().UnixMilli()
		require.NoError(t, err)

		assert.Equal(t, "sess-1", token.SessionID)
		assert.GreaterOrEqual(t, token.Timestamp, before)
		assert.LessOrEqual(t, token.Timestamp, after)
		assert.Len(t, token.Nonce, 32) // 16 random bytes, hex
		assert.True(t, VerifySignature(secret, token.SessionID, token.Timestamp, token.Nonce, token.Signature))
	})

	t.Run("two issuances never collide", func(t *testing.T) {
		a, err := issuer.Issue("sess-1")
		require.NoError(t, err)
		b, err := issuer.Issue("sess-1")
		require.NoError(t, err)

		assert.NotEqual(t, a.Nonce, b.Nonce)
		assert.NotEqual(t, a.Signature, b.Signature)
	})

	t.Run("advisory expiry is timestamp plus ttl", func(t *testing.T) {
		token, err := issuer.Issue("sess-1")
		require.NoError(t, err)
		assert.Equal(t, token.Timestamp+30_000, token.ExpiresAt(issuer.TTL()))
	})
}

func TestIssuer_IssueCode(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), 30*time.Second)

	code, err := issuer.IssueCode("sess-1", 256)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", code.Token.SessionID)
	assert.Equal(t, code.Token.Timestamp+30_000, code.ExpiresAt)
	require.True(t, len(code.PNG) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, code.PNG[:4])
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	issuer := NewIssuer([]byte("s"), 0)
	assert.Equal(t, DefaultTTL, issuer.TTL())
}
