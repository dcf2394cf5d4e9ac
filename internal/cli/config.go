package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	GuestID   string
	GuestFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("BULLSCOWS_SERVER", "http://localhost:8080"),
		GuestID:   os.Getenv("BULLSCOWS_GUEST"),
		GuestFile: getEnvOrDefault("BULLSCOWS_GUEST_FILE", defaultGuestFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadGuest loads the guest id from file if not already set
func (c *Config) LoadGuest() error {
	if c.GuestID != "" {
		return nil
	}

	data, err := os.ReadFile(c.GuestFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No guest file is fine
		}
		return err
	}

	c.GuestID = strings.TrimSpace(string(data))
	return nil
}

// SaveGuest saves the guest id to the guest file
func (c *Config) SaveGuest(id string) error {
	c.GuestID = id

	dir := filepath.Dir(c.GuestFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.GuestFile, []byte(id), 0600)
}

// ForgetGuest removes the saved guest id
func (c *Config) ForgetGuest() error {
	c.GuestID = ""
	if err := os.Remove(c.GuestFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultGuestFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bullscows/guest"
	}
	return filepath.Join(home, ".bullscows", "guest")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
