package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// API_KEY_PRIVATE is the provider API key secret (a PEM-encoded EC private
// key); it also serves as the passphrase for the local encrypted seed file.
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	BaseURL       string `envconfig:"BASE_URL" default:"https://api.cdp.coinbase.com"`
	APIKeyName    string `envconfig:"API_KEY_NAME" required:"true"`
	APIKeyPrivate string `envconfig:"API_KEY_PRIVATE" required:"true"`
	SeedFilePath  string `envconfig:"SEED_FILE_PATH" default:"my_wallet_seed.json"`
	AssetsFile    string `envconfig:"ASSETS_FILE" default:"assets.yaml"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetBaseURL returns the provider API base URL from configuration
func GetBaseURL() string {
	return Get().BaseURL
}

// GetAPIKeyName returns the provider API key identifier from configuration
func GetAPIKeyName() string {
	return Get().APIKeyName
}

// GetAPIKeyPrivate returns the provider API key secret from configuration
func GetAPIKeyPrivate() string {
	return Get().APIKeyPrivate
}

// GetSeedFilePath returns the encrypted seed file path from configuration
func GetSeedFilePath() string {
	return Get().SeedFilePath
}

// GetAssetsFile returns path to the asset registry file from configuration
func GetAssetsFile() string {
	return Get().AssetsFile
}

// SeedPassphraseBytes returns a copy of the seed passphrase (the API key
// secret). Caller must zero the returned slice after use.
func SeedPassphraseBytes() ([]byte, error) {
	secret := Get().APIKeyPrivate
	if secret == "" {
		return nil, errors.New("API_KEY_PRIVATE not set")
	}
	out := make([]byte, len(secret))
	copy(out, secret)
	return out, nil
}
