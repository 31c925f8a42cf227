package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	IdentityFile string
	Output       string
	Verbose      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("ECOSHOT_SERVER", "http://localhost:8080"),
		IdentityFile: getEnvOrDefault("ECOSHOT_IDENTITY_FILE", defaultIdentityFile()),
		Output:       "text",
		Verbose:      false,
	}
}

// Identity is the credential handed out at create/join time, persisted
// so later commands can default to it
type Identity struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

// LoadIdentity reads the saved identity, if any
func (c *Config) LoadIdentity() (*Identity, error) {
	data, err := os.ReadFile(c.IdentityFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// SaveIdentity persists the identity returned by create/join
func (c *Config) SaveIdentity(id Identity) error {
	dir := filepath.Dir(c.IdentityFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.IdentityFile, data, 0600)
}

func defaultIdentityFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ecoshot/identity.json"
	}
	return filepath.Join(home, ".ecoshot", "identity.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
