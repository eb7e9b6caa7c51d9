package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

// Config holds the process configuration for the server.
type Config struct {
	Listen                string
	DataDir               string
	ExclusionBackend      string
	RedisAddress          string
	RedisPoolSize         int
	PerPage               int
	RecognitionDailyLimit int
	SessionIdleTimeout    time.Duration
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Listen:                DefaultListen,
		DataDir:               DefaultDataDir(),
		ExclusionBackend:      ExclusionFile,
		RedisPoolSize:         DefaultRedisPoolSize,
		PerPage:               DefaultPerPage,
		RecognitionDailyLimit: DefaultRecognitionDailyLimit,
		SessionIdleTimeout:    DefaultSessionIdleTimeout,
	}
}

// DefaultDataDir returns the directory used for persisted state.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), LogSubDir)
	}
	return filepath.Join(homeDir, LogSubDir)
}

// KeySource resolves API keys by name.
type KeySource interface {
	APIKey(name string) string
}

// KeyringSource resolves API keys from the environment first and the OS keyring second.
type KeyringSource struct {
	Service string
	Getenv  func(string) string
}

// NewKeyringSource returns a KeyringSource for the application's keyring service.
func NewKeyringSource() *KeyringSource {
	return &KeyringSource{Service: AppName, Getenv: os.Getenv}
}

// APIKey returns the key stored under name, or an empty string when none is configured.
func (k *KeyringSource) APIKey(name string) string {
	secret, _ := k.LookupAPIKey(name)
	return secret
}

// LookupAPIKey is APIKey with keyring failures reported. A key that is
// simply absent is not an error.
func (k *KeyringSource) LookupAPIKey(name string) (string, error) {
	if v := strings.TrimSpace(k.Getenv(name)); v != "" {
		return v, nil
	}
	secret, err := keyring.Get(k.Service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return secret, nil
}

// SetAPIKey stores the key under name in the OS keyring. An empty value deletes it.
func (k *KeyringSource) SetAPIKey(name, value string) error {
	if value == "" {
		err := keyring.Delete(k.Service, name)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
		return nil
	}
	return keyring.Set(k.Service, name, value)
}

// StaticKeys is a KeySource backed by a fixed map.
type StaticKeys map[string]string

// APIKey returns the key stored under name.
func (s StaticKeys) APIKey(name string) string {
	return s[name]
}
