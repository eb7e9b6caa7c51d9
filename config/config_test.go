package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringSource(t *testing.T) {
	keyring.MockInit()

	env := map[string]string{PexelsKey: "  env-key  "}
	src := &KeyringSource{Service: AppName, Getenv: func(k string) string { return env[k] }}

	t.Run("Environment wins", func(t *testing.T) {
		require.NoError(t, src.SetAPIKey(PexelsKey, "stored-key"))
		assert.Equal(t, "env-key", src.APIKey(PexelsKey))
	})

	t.Run("Keyring fallback", func(t *testing.T) {
		require.NoError(t, src.SetAPIKey(UnsplashKey, "stored-unsplash"))
		assert.Equal(t, "stored-unsplash", src.APIKey(UnsplashKey))
	})

	t.Run("Missing key", func(t *testing.T) {
		assert.Equal(t, "", src.APIKey(PixabayKey))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, src.SetAPIKey(UnsplashKey, ""))
		assert.Equal(t, "", src.APIKey(UnsplashKey))
		// Deleting a missing key is not an error.
		assert.NoError(t, src.SetAPIKey(UnsplashKey, ""))
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, ExclusionFile, cfg.ExclusionBackend)
	assert.Equal(t, 10, cfg.PerPage)
	assert.Equal(t, 10*time.Minute, cfg.SessionIdleTimeout)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestStaticKeys(t *testing.T) {
	keys := StaticKeys{LastFMKey: "abc"}
	assert.Equal(t, "abc", keys.APIKey(LastFMKey))
	assert.Equal(t, "", keys.APIKey(RapidAPIKey))
}

func TestLookupAPIKeyMissing(t *testing.T) {
	keyring.MockInit()
	src := &KeyringSource{Service: AppName, Getenv: func(string) string { return "" }}
	v, err := src.LookupAPIKey(RapidAPIKey)
	assert.NoError(t, err)
	assert.Empty(t, v)
}
