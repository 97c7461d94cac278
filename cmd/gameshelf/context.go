package main

import (
	"log/slog"
	"strings"
	"sync"

	"gameshelf/internal/catalog"
	"gameshelf/internal/catalog/pricechart"
	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// configPath returns the --config flag value, empty when unset.
func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// withStore opens the collection store for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *library.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := library.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// catalogClient builds the live catalog client from configuration. Commands
// that talk to the external catalog require an API key.
func (c *commandContext) catalogClient() (catalog.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := pricechart.New(
		cfg.Catalog.APIKey,
		cfg.Catalog.BaseURL,
		cfg.Catalog.UserAgent,
		pricechart.WithTimeout(cfg.CatalogTimeout()),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "catalog", "", err)
	}
	return client, nil
}
