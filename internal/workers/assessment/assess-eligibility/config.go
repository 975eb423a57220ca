// internal/workers/assessment/assess-eligibility/config.go
package assesseligibility

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration // 0 disables prediction caching
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		CacheTTL: time.Hour,
	}
}
