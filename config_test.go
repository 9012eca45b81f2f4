package klaviyo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	klaviyo "github.com/lexfrei/go-klaviyo"
	"github.com/lexfrei/go-klaviyo/apierror"
)

// These tests modify the process environment and cannot run in parallel.

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(klaviyo.EnvPublicKey, "PUB")
	t.Setenv(klaviyo.EnvPrivateKey, "pk_env")
	t.Setenv(klaviyo.EnvBaseURL, "https://example.test/api")

	cfg, err := klaviyo.ConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "PUB", cfg.PublicKey)
	assert.Equal(t, "pk_env", cfg.PrivateKey)
	assert.Equal(t, "https://example.test/api", cfg.BaseURL)
}

func TestConfigFromEnvFile(t *testing.T) {
	t.Setenv(klaviyo.EnvPublicKey, "")
	t.Setenv(klaviyo.EnvPrivateKey, "")
	t.Setenv(klaviyo.EnvBaseURL, "")
	// godotenv does not override variables that are already set, even when empty.
	require.NoError(t, os.Unsetenv(klaviyo.EnvPrivateKey))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(klaviyo.EnvPrivateKey+"=pk_file\n"), 0o600))

	cfg, err := klaviyo.ConfigFromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "pk_file", cfg.PrivateKey)

	client, err := klaviyo.NewWithConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestConfigFromEnvMissingKeys(t *testing.T) {
	t.Setenv(klaviyo.EnvPublicKey, "")
	t.Setenv(klaviyo.EnvPrivateKey, "")

	_, err := klaviyo.ConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.True(t, errors.Is(err, apierror.ErrConfiguration))
}
