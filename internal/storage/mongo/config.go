package mongo

import "time"

const (
	RoomsCollection  = "rooms"
	GuestsCollection = "guests"
)

// Config holds MongoDB connection settings
type Config struct {
	URI               string
	Database          string
	ConnectionTimeout time.Duration
	// MaxPoolSize caps open connections; 0 keeps the driver default
	MaxPoolSize uint64
}

// DefaultConfig returns sensible defaults for MongoDB configuration
func DefaultConfig() Config {
	return Config{
		URI:               "mongodb://localhost:27017",
		Database:          "bullscows",
		ConnectionTimeout: 20 * time.Second,
	}
}
