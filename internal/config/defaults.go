package config

const (
	defaultDataDir                = "~/.local/share/gameshelf"
	defaultLogDir                 = "~/.local/share/gameshelf/logs"
	defaultImportDir              = "~/.local/share/gameshelf/import"
	defaultDatabaseFile           = "collection.db"
	defaultAPIBind                = "127.0.0.1:7474"
	defaultCatalogBaseURL         = "https://www.pricecharting.com"
	defaultCatalogUserAgent       = "gameshelf/dev"
	defaultCatalogRequestTimeout  = 15
	defaultCooldownDays           = 7
	defaultRefreshIntervalMinutes = 720
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultNotifyRequestTimeout   = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			UserAgent:      defaultCatalogUserAgent,
			RequestTimeout: defaultCatalogRequestTimeout,
		},
		Refresh: Refresh{
			CooldownDays:    defaultCooldownDays,
			IntervalMinutes: defaultRefreshIntervalMinutes,
			ResolveFirst:    true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Refresh:        true,
			Resolve:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
