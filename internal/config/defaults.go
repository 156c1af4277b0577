package config

const (
	defaultCacheDir        = "~/.cache/dogwatch"
	defaultLogDir          = "~/.local/share/dogwatch/logs"
	defaultDTDDBaseURL     = "https://www.doesthedogdie.com"
	defaultCacheTTLSeconds = 604800 // 7 days
	defaultAPIDelaySeconds = 1.0
	defaultMinYesVotes     = 3
	defaultMinYesRatio     = 0.6
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	// DefaultSeparator delimits the original summary text from the appended
	// warning block. Changing it orphans blocks written with the old value.
	DefaultSeparator = "\n\n———— Content Warnings (via DoesTheDogDie.com) ————"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		DTDD: DTDD{
			BaseURL:         defaultDTDDBaseURL,
			CacheTTLSeconds: defaultCacheTTLSeconds,
			APIDelaySeconds: defaultAPIDelaySeconds,
		},
		Warnings: Warnings{
			MinYesVotes: defaultMinYesVotes,
			MinYesRatio: defaultMinYesRatio,
			Separator:   DefaultSeparator,
		},
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
