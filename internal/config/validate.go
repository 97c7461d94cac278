package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRefresh(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog.base_url %q must be an absolute http(s) URL", c.Catalog.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("catalog.base_url scheme %q is not supported", parsed.Scheme)
	}
	if c.Catalog.RequestTimeout <= 0 {
		return errors.New("catalog.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateRefresh() error {
	if c.Refresh.CooldownDays < 1 || c.Refresh.CooldownDays > 90 {
		return errors.New("refresh.cooldown_days must be between 1 and 90")
	}
	if c.Refresh.MaxPerCycle < 0 {
		return errors.New("refresh.max_per_cycle must be >= 0 (0 means no cap)")
	}
	if c.Refresh.IntervalMinutes <= 0 {
		return errors.New("refresh.interval_minutes must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	if topic := c.Notifications.NtfyTopic; topic != "" && strings.ContainsAny(topic, " \t") {
		return fmt.Errorf("notifications.ntfy_topic %q must not contain whitespace", topic)
	}
	return nil
}
