package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("SHEETS_SCRIPT_URL", "https://script.example.com/exec")

	t.Run("default is split per origin", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}, cfg.CORS.AllowedOrigins)
	})

	t.Run("comma separated value with spaces", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://armada.example.com, https://staging.armada.example.com ,")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, []string{
			"https://armada.example.com",
			"https://staging.armada.example.com",
		}, cfg.CORS.AllowedOrigins)
	})
}

func TestLoad_RequiresScriptURL(t *testing.T) {
	t.Setenv("PERSISTENCE_DRIVER", "sheets")
	t.Setenv("SHEETS_SCRIPT_URL", "")

	_, err := Load()
	assert.Error(t, err)
}
