package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dogwatch/internal/apicache"
	"dogwatch/internal/config"
	"dogwatch/internal/dtdd"
	"dogwatch/internal/logging"
	"dogwatch/internal/match"
	"dogwatch/internal/pipeline"
	"dogwatch/internal/plexserver"
	"dogwatch/internal/warnings"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	outputs := []string{"stdout"}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "dogwatch.log"))
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// openCache opens the shared API response cache database.
func (c *commandContext) openCache(cfg *config.Config, logger *slog.Logger) (*apicache.Store, error) {
	ttl := time.Duration(cfg.DTDD.CacheTTLSeconds) * time.Second
	store, err := apicache.Open(cfg.CachePath(), ttl, logger)
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}
	return store, nil
}

// buildProcessor wires the full annotation pipeline. The returned cleanup
// closes the cache database and must be called when the run ends.
func (c *commandContext) buildProcessor(logger *slog.Logger) (*pipeline.Processor, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := c.openCache(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = store.Close() }

	client, err := dtdd.New(dtdd.Config{
		APIKey:   cfg.DTDD.APIKey,
		BaseURL:  cfg.DTDD.BaseURL,
		APIDelay: time.Duration(cfg.DTDD.APIDelaySeconds * float64(time.Second)),
		Cache:    store,
		Logger:   logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	plex, err := plexserver.New(cfg.Plex.URL, cfg.Plex.Token, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	thresholds := warnings.Thresholds{
		MinYesVotes:       cfg.Warnings.MinYesVotes,
		MinYesRatio:       cfg.Warnings.MinYesRatio,
		IncludeSafeTopics: cfg.Warnings.IncludeSafeTopics,
	}
	processor := pipeline.New(plex, match.New(client, logger), thresholds, cfg.Warnings.Separator, logger)
	return processor, cleanup, nil
}
