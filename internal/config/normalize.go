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
	c.normalizeClassifier()
	c.normalizeModel()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if path := strings.TrimSpace(c.Taxonomy.Path); path != "" {
		if c.Taxonomy.Path, err = expandPath(path); err != nil {
			return fmt.Errorf("taxonomy.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeClassifier() {
	if c.Classifier.DedupPrefixLength == 0 {
		c.Classifier.DedupPrefixLength = defaultDedupPrefixLength
	}
	if strings.TrimSpace(c.Classifier.FallbackTranscript) == "" {
		c.Classifier.FallbackTranscript = defaultFallbackTranscript
	}
}

func (c *Config) normalizeModel() {
	c.Model.Provider = strings.ToLower(strings.TrimSpace(c.Model.Provider))
	if c.Model.Provider == "" {
		c.Model.Provider = defaultProvider
	}
	c.Model.APIKey = strings.TrimSpace(c.Model.APIKey)
	c.Model.BaseURL = strings.TrimSpace(c.Model.BaseURL)
	c.Model.Model = strings.TrimSpace(c.Model.Model)
	c.Model.Referer = strings.TrimSpace(c.Model.Referer)
	c.Model.Title = strings.TrimSpace(c.Model.Title)

	switch c.Model.Provider {
	case ProviderOpenRouter:
		if c.Model.APIKey == "" {
			if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
				c.Model.APIKey = strings.TrimSpace(value)
			}
		}
		if c.Model.BaseURL == "" {
			c.Model.BaseURL = defaultOpenRouterBaseURL
		}
		if c.Model.Model == "" {
			c.Model.Model = defaultOpenRouterModel
		}
		if c.Model.Referer == "" {
			c.Model.Referer = defaultOpenRouterReferer
		}
		if c.Model.Title == "" {
			c.Model.Title = defaultOpenRouterTitle
		}
	case ProviderGemini:
		if c.Model.APIKey == "" {
			if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
				c.Model.APIKey = strings.TrimSpace(value)
			} else if value, ok := os.LookupEnv("GOOGLE_API_KEY"); ok {
				c.Model.APIKey = strings.TrimSpace(value)
			}
		}
		if c.Model.Model == "" {
			c.Model.Model = defaultGeminiModel
		}
	}
	if c.Model.TimeoutSeconds <= 0 {
		c.Model.TimeoutSeconds = defaultTimeoutSecs
	}
	if c.Model.RetryAttempts <= 0 {
		c.Model.RetryAttempts = defaultRetries
	}
	if c.Model.RequestsPerMinute < 0 {
		c.Model.RequestsPerMinute = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
