// internal/workers/assessment/resolve-decision/config.go
package resolvedecision

import "time"

// Decision resolution is pure computation, so only a timeout is configurable.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
