package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Cache       CacheConfig       `toml:"cache"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains identity-provider credentials.
type CredentialsConfig struct {
	Cognito  CognitoConfig  `toml:"cognito"`
	Identity IdentityConfig `toml:"identity"`
}

// CognitoConfig identifies the user pool app client to authenticate against.
type CognitoConfig struct {
	ClientID string `toml:"client_id"`
	Region   string `toml:"region"`
}

// IdentityConfig contains the optional identity-pool mapping used to exchange
// a user-pool token for federated AWS credentials. All three fields must be
// set for the mapping to take effect.
type IdentityConfig struct {
	UserPoolID     string `toml:"user_pool_id"`
	IdentityPoolID string `toml:"identity_pool_id"`
	AccountID      string `toml:"account_id"`
}

// CacheConfig contains session cache settings.
type CacheConfig struct {
	Path string `toml:"path"`
}

// LogConfig contains log output settings for the TUI.
type LogConfig struct {
	Path string `toml:"path"`
}

// Enabled reports whether the identity-pool mapping is fully configured.
func (c IdentityConfig) Enabled() bool {
	return c.UserPoolID != "" && c.IdentityPoolID != "" && c.AccountID != ""
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
