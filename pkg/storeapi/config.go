package storeapi

import "time"

// Config represents the configuration for the remote store backend client
type Config struct {
	// BaseURL is the backend API base URL, e.g. https://frecha-iotech.onrender.com/api
	BaseURL string

	// Timeout bounds every HTTP call
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
