package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Enrichment.validate(); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}

	if c.Disclaimer.PolicyVersion == "" {
		return fmt.Errorf("disclaimer.policy_version must not be empty")
	}

	return nil
}

func (e *EnrichmentConfig) validate() error {
	if e.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", e.Workers)
	}
	if e.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be > 0 (got %d)", e.QueueSize)
	}
	if e.ComputationTimeout <= 0 {
		return fmt.Errorf("computation_timeout must be > 0 (got %v)", e.ComputationTimeout)
	}

	kinds, err := ParseSuggestionKinds(e.KindsRaw)
	if err != nil {
		return fmt.Errorf("kinds: %w", err)
	}
	e.Kinds = kinds

	return nil
}
