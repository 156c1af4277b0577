package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateDTDD(); err != nil {
		return err
	}
	if err := c.validateWarnings(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	if c.Plex.URL == "" {
		return errors.New("plex.url must be set")
	}
	if c.Plex.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/dogwatch/config.toml"
		}
		return fmt.Errorf("plex.token is required. Set PLEX_TOKEN env var or edit %s (create with 'dogwatch config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateDTDD() error {
	if c.DTDD.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/dogwatch/config.toml"
		}
		return fmt.Errorf("dtdd.api_key is required. Set DTDD_API_KEY env var or edit %s (create with 'dogwatch config init')", defaultPath)
	}
	if c.DTDD.CacheTTLSeconds < 0 {
		return errors.New("dtdd.cache_ttl must be >= 0 (seconds)")
	}
	if c.DTDD.APIDelaySeconds < 0 {
		return errors.New("dtdd.api_delay must be >= 0 (seconds)")
	}
	return nil
}

func (c *Config) validateWarnings() error {
	if c.Warnings.MinYesVotes < 0 {
		return errors.New("warnings.min_yes_votes must be >= 0")
	}
	if c.Warnings.MinYesRatio < 0 || c.Warnings.MinYesRatio > 1 {
		return errors.New("warnings.min_yes_ratio must be between 0 and 1")
	}
	if c.Warnings.Separator == "" {
		return errors.New("warnings.separator must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
