package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlex()
	c.normalizeDTDD()
	c.normalizeWarnings()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlex() {
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if c.Plex.Token == "" {
		if value, ok := os.LookupEnv("PLEX_TOKEN"); ok {
			c.Plex.Token = strings.TrimSpace(value)
		}
	}
	libraries := make([]string, 0, len(c.Plex.Libraries))
	for _, name := range c.Plex.Libraries {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			libraries = append(libraries, trimmed)
		}
	}
	c.Plex.Libraries = libraries
}

func (c *Config) normalizeDTDD() {
	c.DTDD.APIKey = strings.TrimSpace(c.DTDD.APIKey)
	if c.DTDD.APIKey == "" {
		if value, ok := os.LookupEnv("DTDD_API_KEY"); ok {
			c.DTDD.APIKey = strings.TrimSpace(value)
		}
	}
	c.DTDD.BaseURL = strings.TrimRight(strings.TrimSpace(c.DTDD.BaseURL), "/")
	if c.DTDD.BaseURL == "" {
		c.DTDD.BaseURL = defaultDTDDBaseURL
	}
	if c.DTDD.CacheTTLSeconds == 0 {
		c.DTDD.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	if c.DTDD.APIDelaySeconds == 0 {
		c.DTDD.APIDelaySeconds = defaultAPIDelaySeconds
	}
}

func (c *Config) normalizeWarnings() {
	if c.Warnings.MinYesVotes == 0 {
		c.Warnings.MinYesVotes = defaultMinYesVotes
	}
	if c.Warnings.MinYesRatio == 0 {
		c.Warnings.MinYesRatio = defaultMinYesRatio
	}
	if c.Warnings.Separator == "" {
		c.Warnings.Separator = DefaultSeparator
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
