package config

import "time"

// PushConfig controls FCM delivery of notifications. The Firebase app is
// shared with the identity provider and uses its credentials file.
type PushConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

func loadPushConfig() *PushConfig {
	return &PushConfig{
		Enabled: getEnvAsBool("PUSH_ENABLED", false),
		Timeout: getEnvAsDuration("PUSH_TIMEOUT", 10*time.Second),
	}
}
