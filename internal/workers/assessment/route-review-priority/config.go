// internal/workers/assessment/route-review-priority/config.go
package routereviewpriority

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
