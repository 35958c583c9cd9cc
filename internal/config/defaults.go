package config

const (
	defaultConfigPath  = "~/.config/storevisit/config.toml"
	projectConfigName  = "storevisit.toml"
	databaseFileName   = "storevisit.db"
	lockFileName       = "storevisit.lock"
	logFileName        = "storevisit.log"
	defaultDataDir     = "~/.local/share/storevisit"
	defaultLogDir      = "~/.local/share/storevisit/logs"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultProvider    = ProviderNone
	defaultTimeoutSecs = 60
	defaultRetries     = 3

	defaultBaseConfidence     = 0.6
	defaultKeywordStep        = 0.1
	defaultDedupPrefixLength  = 50
	defaultFallbackTranscript = "（音声を認識できませんでした）"

	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel   = "google/gemini-2.5-flash"
	defaultOpenRouterReferer = "https://github.com/storevisit/storevisit"
	defaultOpenRouterTitle   = "Store Visit Observations"
	defaultGeminiModel       = "gemini-2.5-flash"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Classifier: Classifier{
			BaseConfidence:     defaultBaseConfidence,
			KeywordStep:        defaultKeywordStep,
			DedupPrefixLength:  defaultDedupPrefixLength,
			FallbackTranscript: defaultFallbackTranscript,
		},
		Model: Model{
			Provider:       defaultProvider,
			TimeoutSeconds: defaultTimeoutSecs,
			RetryAttempts:  defaultRetries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
