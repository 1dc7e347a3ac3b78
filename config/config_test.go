package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("development falls back to the dev secret", func(t *testing.T) {
		t.Setenv("QR_SECRET", "")
		t.Setenv("APP_ENV", "development")

		cfg, err := Load("does-not-exist")
		require.NoError(t, err)
		assert.Equal(t, devQRSecret, cfg.QR.Secret)
		assert.Equal(t, 30*time.Second, cfg.QR.TTL)
		assert.Equal(t, 2*time.Second, cfg.QR.SkewTolerance)
		assert.Equal(t, 10*time.Minute, cfg.QR.GraceWindow)
	})

	t.Run("missing secret outside development is fatal", func(t *testing.T) {
		t.Setenv("QR_SECRET", "")
		t.Setenv("APP_ENV", "production")

		_, err := Load("does-not-exist")
		assert.Error(t, err)
	})

	t.Run("environment overrides win", func(t *testing.T) {
		t.Setenv("QR_SECRET", "super-secret")
		t.Setenv("APP_ENV", "production")
		t.Setenv("PORT", ":8080")

		cfg, err := Load("does-not-exist")
		require.NoError(t, err)
		assert.Equal(t, "super-secret", cfg.QR.Secret)
		assert.Equal(t, ":8080", cfg.Server.Port)
	})
}
